package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Ограничения длины полей, которые админка может редактировать.
const (
	MaxNameLength        = 100
	MaxJobTitleLength    = 200
	MaxDescriptionLength = 5000
	MaxLocationLength    = 200
	MaxBioLength         = 1000
	MaxReasonLength      = 500
	MaxNotesLength       = 2000
	MaxExperienceYears   = 80
)

// ValidateLength проверяет длину строки в символах.
func ValidateLength(fieldName, value string, min, max int) error {
	length := utf8.RuneCountInString(value)
	if min > 0 && length < min {
		return fmt.Errorf("%s must be at least %d characters", fieldName, min)
	}
	if max > 0 && length > max {
		return fmt.Errorf("%s must be at most %d characters", fieldName, max)
	}
	return nil
}

// ValidateOptional проверяет необязательное поле, пустое значение допустимо.
func ValidateOptional(fieldName string, value *string, max int) error {
	if value == nil {
		return nil
	}
	return ValidateLength(fieldName, strings.TrimSpace(*value), 0, max)
}

// ValidateName проверяет отображаемое имя пользователя.
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("name is required")
	}
	return ValidateLength("name", name, 0, MaxNameLength)
}

// ValidateJobTitle проверяет заголовок вакансии, если он меняется.
func ValidateJobTitle(title *string) error {
	if title == nil {
		return nil
	}
	return ValidateLength("title", strings.TrimSpace(*title), 1, MaxJobTitleLength)
}

// ValidateReason причина модерации, пустая допустима.
func ValidateReason(reason string) error {
	return ValidateLength("reason", strings.TrimSpace(reason), 0, MaxReasonLength)
}

// ValidateNotes заметки администратора.
func ValidateNotes(fieldName, notes string) error {
	return ValidateLength(fieldName, strings.TrimSpace(notes), 0, MaxNotesLength)
}

// ValidateExperience проверяет стаж сиделки.
func ValidateExperience(years int) error {
	if years < 0 || years > MaxExperienceYears {
		return fmt.Errorf("experience_years must be between 0 and %d", MaxExperienceYears)
	}
	return nil
}
