package middleware

import (
	"errors"
	"net/url"
	"strings"
	"unicode/utf8"
)

// Field limits for user-supplied lead and template data.
const (
	MaxBusinessNameLength = 200
	MaxAddressLength      = 500
	MaxPhoneLength        = 50
	MaxWebsiteLength      = 2048
	MaxNotesLength        = 5000
	MaxTagCount           = 50
	MaxTagLength          = 50
	MaxTemplateNameLength = 100
	MaxSubjectLength      = 300
	MaxTemplateBodyLength = 20000
)

// Validation errors.
var (
	ErrFieldTooLong   = errors.New("field exceeds maximum length")
	ErrTooManyTags    = errors.New("too many tags")
	ErrWebsiteInvalid = errors.New("website must be an http or https URL")
)

// ValidateLength checks a field against its rune limit.
func ValidateLength(value string, limit int) error {
	if utf8.RuneCountInString(value) > limit {
		return ErrFieldTooLong
	}
	return nil
}

// ValidateTags checks tag count and per-tag length.
func ValidateTags(tags []string) error {
	if len(tags) > MaxTagCount {
		return ErrTooManyTags
	}
	for _, t := range tags {
		if err := ValidateLength(t, MaxTagLength); err != nil {
			return err
		}
	}
	return nil
}

// ValidateWebsite accepts an empty value or an absolute http(s) URL.
func ValidateWebsite(website string) error {
	if website == "" {
		return nil
	}
	if len(website) > MaxWebsiteLength {
		return ErrFieldTooLong
	}

	u, err := url.Parse(website)
	if err != nil || u.Host == "" {
		return ErrWebsiteInvalid
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return nil
	default:
		return ErrWebsiteInvalid
	}
}
