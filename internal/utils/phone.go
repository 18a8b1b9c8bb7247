package utils

import "regexp"

// phonePattern accepts E.164-style numbers with an optional leading plus.
var phonePattern = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)

// ValidPhoneNumber reports whether the given string looks like a phone
// number we can send SMS to.
func ValidPhoneNumber(phone string) bool {
	return phonePattern.MatchString(phone)
}
