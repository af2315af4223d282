package types

// Resolve picks the first non-empty value from the ordered fallback chain
// profile setting -> account setting -> fixed default. Every setting lookup
// in the engine goes through this single implementation instead of inline
// null-checks.
func Resolve(profileSetting, accountSetting, fallback string) string {
	if profileSetting != "" {
		return profileSetting
	}
	if accountSetting != "" {
		return accountSetting
	}
	return fallback
}
