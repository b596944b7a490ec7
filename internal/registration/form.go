// Package registration checks the five-step family sign-up form.
package registration

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type Step int

const (
	StepPersonal Step = iota
	StepFamily
	StepChildren
	StepFeatures
	StepPassword
)

const StepCount = 5

const MinPasswordLen = 8

var stepTitles = [StepCount]string{
	"personal information",
	"family information",
	"children",
	"protection features",
	"password",
}

func (s Step) String() string {
	if s < 0 || int(s) >= StepCount {
		return fmt.Sprintf("step(%d)", int(s))
	}
	return stepTitles[s]
}

type Child struct {
	Name    string   `json:"name" validate:"required"`
	Age     string   `json:"age" validate:"required"`
	Devices []string `json:"devices"`
}

type Form struct {
	ParentName       string   `json:"parentName"`
	Email            string   `json:"email"`
	Phone            string   `json:"phone"`
	BirthDate        string   `json:"birthDate"`
	FamilySize       string   `json:"familySize"`
	Children         []Child  `json:"children"`
	SelectedFeatures []string `json:"selectedFeatures"`
	Password         string   `json:"password"`
	ConfirmPassword  string   `json:"confirmPassword"`
}

type personalFields struct {
	ParentName string `validate:"required"`
	Email      string `validate:"required"`
	Phone      string `validate:"required"`
	BirthDate  string `validate:"required"`
}

type familyFields struct {
	FamilySize string `validate:"required"`
}

type featureFields struct {
	SelectedFeatures []string `validate:"min=1"`
}

type passwordFields struct {
	Password        string `validate:"required"`
	ConfirmPassword string `validate:"required"`
}

var (
	ErrUnknownStep = errors.New("unknown registration step")

	emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)
)

// ValidationError is a missing or malformed field, reported per step.
type ValidationError struct {
	Step    Step
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Step, e.Message)
}

type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	return &Validator{validate: validator.New()}
}

func (v *Validator) ValidateStep(f Form, step Step) error {
	fail := func(msg string) error { return &ValidationError{Step: step, Message: msg} }

	switch step {
	case StepPersonal:
		if err := v.validate.Struct(personalFields{f.ParentName, f.Email, f.Phone, f.BirthDate}); err != nil {
			return fail("please fill in all personal information")
		}
		if !emailPattern.MatchString(f.Email) {
			return fail("invalid email address")
		}
	case StepFamily:
		if err := v.validate.Struct(familyFields{f.FamilySize}); err != nil {
			return fail("please choose the number of family members")
		}
	case StepChildren:
		for _, c := range f.Children {
			if err := v.validate.Struct(c); err != nil {
				return fail("please fill in every child's details")
			}
		}
	case StepFeatures:
		if err := v.validate.Struct(featureFields{f.SelectedFeatures}); err != nil {
			return fail("please select at least one protection feature")
		}
	case StepPassword:
		if err := v.validate.Struct(passwordFields{f.Password, f.ConfirmPassword}); err != nil {
			return fail("please enter a password")
		}
		if f.Password != f.ConfirmPassword {
			return fail("password confirmation does not match")
		}
		if len(f.Password) < MinPasswordLen {
			return fail(fmt.Sprintf("password must be at least %d characters", MinPasswordLen))
		}
	default:
		return fmt.Errorf("%w: %d", ErrUnknownStep, int(step))
	}
	return nil
}

// Validate checks every step in order and reports the first failure.
func (v *Validator) Validate(f Form) error {
	for s := StepPersonal; s < StepCount; s++ {
		if err := v.ValidateStep(f, s); err != nil {
			return err
		}
	}
	return nil
}

type Account struct {
	ID         string    `json:"id"`
	ParentName string    `json:"parentName"`
	Email      string    `json:"email"`
	Children   int       `json:"children"`
	Features   []string  `json:"features"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Submit validates f and returns the account that would be created.
// Nothing is stored.
func (v *Validator) Submit(ctx context.Context, f Form) (*Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := v.Validate(f); err != nil {
		return nil, err
	}

	return &Account{
		ID:         uuid.New().String(),
		ParentName: f.ParentName,
		Email:      f.Email,
		Children:   len(f.Children),
		Features:   f.SelectedFeatures,
		CreatedAt:  time.Now().UTC(),
	}, nil
}
