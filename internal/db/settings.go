package db

const (
	DefaultValidityHours = 24
	MinValidityHours     = 1
	MaxValidityHours     = 720
)

func DefaultVerifySettings() *VerifySettings {
	return &VerifySettings{
		Enabled:       false,
		ValidityHours: DefaultValidityHours,
	}
}
