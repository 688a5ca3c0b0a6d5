package deals

import (
	"fmt"
	"strings"
	"time"

	"github.com/dealdesk/merchant-portal/pkg/enums"
	pkgerrors "github.com/dealdesk/merchant-portal/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
)

// Step is a page of the deal-creation wizard.
type Step int

const (
	StepDetails Step = iota + 1
	StepMedia
	StepPricing
	StepReview
)

const (
	FirstStep = StepDetails
	LastStep  = StepReview
)

// Steps lists the wizard pages in order.
var Steps = []Step{StepDetails, StepMedia, StepPricing, StepReview}

func (s Step) IsValid() bool {
	return s >= FirstStep && s <= LastStep
}

func (s Step) String() string {
	switch s {
	case StepDetails:
		return "details"
	case StepMedia:
		return "media"
	case StepPricing:
		return "pricing"
	case StepReview:
		return "review"
	default:
		return fmt.Sprintf("step(%d)", int(s))
	}
}

// TransitionKind names how the stepper moves.
type TransitionKind string

const (
	TransitionNext TransitionKind = "next"
	TransitionBack TransitionKind = "back"
	TransitionJump TransitionKind = "jump"
)

// Transition is a single stepper action; Target is only read for jumps.
type Transition struct {
	Kind   TransitionKind
	Target Step
}

// ValidityPeriod is one redemption window as entered in step 3.
type ValidityPeriod struct {
	ValidFrom     *time.Time
	ValidTo       *time.Time
	ValidTimeFrom string
	ValidTimeTo   string
}

// Draft is the wizard form state the validators run over.
type Draft struct {
	Title           string
	Category        enums.DealCategory
	Description     string
	Images          []string
	OriginalPrice   decimal.Decimal
	DiscountedPrice decimal.Decimal
	CouponQuantity  int
	Terms           string
	TermsAccepted   bool
	ValidityPeriods []ValidityPeriod
}

// FieldError is a single failed rule, keyed by the request field name.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Message
}

const clockLayout = "15:04"

// MaxCouponQuantity bounds how many coupons one publish issues.
const MaxCouponQuantity = 1000

// ValidateStep runs the predicate of one step. The result combines one
// *FieldError per failed rule, or is nil when the step is complete.
func ValidateStep(step Step, d Draft) error {
	switch step {
	case StepDetails:
		return validateDetails(d)
	case StepMedia:
		return validateMedia(d)
	case StepPricing:
		return validatePricing(d)
	case StepReview:
		return validateReview(d)
	default:
		return &FieldError{Field: "step", Message: "unknown step"}
	}
}

// StepComplete reports whether step passes its validator.
func StepComplete(step Step, d Draft) bool {
	return ValidateStep(step, d) == nil
}

// ValidateAll checks every step and then the rules that only gate publishing,
// collecting all failures.
func ValidateAll(d Draft) error {
	var err error
	for _, step := range Steps {
		err = multierr.Append(err, ValidateStep(step, d))
	}
	return multierr.Append(err, validatePublishable(d))
}

// ValidClock reports whether s is an HH:MM time of day. Blank values are
// left to the step validators.
func ValidClock(s string) bool {
	if s == "" {
		return true
	}
	_, err := time.Parse(clockLayout, s)
	return err == nil
}

func validateDetails(d Draft) error {
	var err error
	if strings.TrimSpace(d.Title) == "" {
		err = multierr.Append(err, &FieldError{Field: "title", Message: "is required"})
	}
	if !d.Category.IsValid() {
		err = multierr.Append(err, &FieldError{Field: "category", Message: "must be a known category"})
	}
	if strings.TrimSpace(d.Description) == "" {
		err = multierr.Append(err, &FieldError{Field: "description", Message: "is required"})
	}
	return err
}

func validateMedia(d Draft) error {
	for _, img := range d.Images {
		if strings.TrimSpace(img) != "" {
			return nil
		}
	}
	return &FieldError{Field: "images", Message: "at least one image is required"}
}

func validatePricing(d Draft) error {
	var err error
	if !d.DiscountedPrice.IsPositive() {
		err = multierr.Append(err, &FieldError{Field: "discounted_price", Message: "must be greater than zero"})
	}
	if d.DiscountedPrice.GreaterThanOrEqual(d.OriginalPrice) {
		err = multierr.Append(err, &FieldError{Field: "discounted_price", Message: "must be less than the original price"})
	}
	for _, p := range d.ValidityPeriods {
		if periodFilled(p) {
			return err
		}
	}
	return multierr.Append(err, &FieldError{Field: "validity_periods", Message: "at least one period needs a start date and both times"})
}

func periodFilled(p ValidityPeriod) bool {
	return p.ValidFrom != nil && p.ValidTimeFrom != "" && p.ValidTimeTo != ""
}

// validatePublishable holds the rules coupon issuing depends on; the stepper
// does not gate on them.
func validatePublishable(d Draft) error {
	var err error
	if d.CouponQuantity <= 0 {
		err = multierr.Append(err, &FieldError{Field: "coupon_quantity", Message: "must be greater than zero"})
	} else if d.CouponQuantity > MaxCouponQuantity {
		err = multierr.Append(err, &FieldError{Field: "coupon_quantity", Message: fmt.Sprintf("must be at most %d", MaxCouponQuantity)})
	}
	for i, p := range d.ValidityPeriods {
		if !periodFilled(p) {
			continue
		}
		err = multierr.Append(err, validatePeriod(i, p))
	}
	return err
}

func validatePeriod(i int, p ValidityPeriod) error {
	field := fmt.Sprintf("validity_periods[%d]", i)
	var err error
	if !ValidClock(p.ValidTimeFrom) {
		err = multierr.Append(err, &FieldError{Field: field + ".valid_time_from", Message: "must be HH:MM"})
	}
	if !ValidClock(p.ValidTimeTo) {
		err = multierr.Append(err, &FieldError{Field: field + ".valid_time_to", Message: "must be HH:MM"})
	}
	if p.ValidTo != nil && p.ValidTo.Before(*p.ValidFrom) {
		err = multierr.Append(err, &FieldError{Field: field + ".valid_to", Message: "must not be before valid_from"})
	}
	return err
}

func validateReview(d Draft) error {
	if !d.TermsAccepted {
		return &FieldError{Field: "terms_accepted", Message: "terms must be accepted"}
	}
	return nil
}

// Advance applies t to current. Next is gated by the current step's
// validator and stays put on the last step; back and jump are never gated.
func Advance(current Step, t Transition, d Draft) (Step, error) {
	if !current.IsValid() {
		return current, pkgerrors.New(pkgerrors.CodeStateConflict, "draft is on an unknown step")
	}
	switch t.Kind {
	case TransitionNext:
		if err := ValidateStep(current, d); err != nil {
			return current, validationError(fmt.Sprintf("%s step is incomplete", current), err)
		}
		if current == LastStep {
			return current, nil
		}
		return current + 1, nil
	case TransitionBack:
		if current == FirstStep {
			return current, nil
		}
		return current - 1, nil
	case TransitionJump:
		if !t.Target.IsValid() {
			return current, pkgerrors.New(pkgerrors.CodeValidation, "jump target must be between 1 and 4")
		}
		return t.Target, nil
	default:
		return current, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown transition %q", t.Kind))
	}
}

// validationError converts combined *FieldError values into a typed
// validation error whose details map field to messages.
func validationError(message string, err error) error {
	details := map[string][]string{}
	for _, e := range multierr.Errors(err) {
		if fe, ok := e.(*FieldError); ok {
			details[fe.Field] = append(details[fe.Field], fe.Message)
			continue
		}
		details["draft"] = append(details["draft"], e.Error())
	}
	return pkgerrors.New(pkgerrors.CodeValidation, message).WithDetails(details)
}
