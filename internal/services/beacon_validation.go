package services

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/codecrew/backend/internal/models"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Type-specific attribute schemas, one per beacon type. The set of
// recognized types is a closed enumeration; an unknown type is a
// validation error, not a pass-through.

type learningData struct {
	LearningGoals  string `json:"learning_goals" validate:"required"`
	Curriculum     string `json:"curriculum"`
	MeetingCadence string `json:"meeting_cadence"`
}

type portfolioData struct {
	TargetAudience string `json:"target_audience" validate:"required"`
	Stack          string `json:"stack" validate:"required"`
}

type openSourceData struct {
	RepoURL      string `json:"repo_url" validate:"required,url"`
	License      string `json:"license" validate:"required"`
	Contributing string `json:"contributing"`
}

type hackathonData struct {
	EventName  string `json:"event_name" validate:"required"`
	Deadline   string `json:"deadline" validate:"required,datetime=2006-01-02"`
	PrizePool  string `json:"prize_pool"`
	TeamSizeOK *bool  `json:"team_size_flexible"`
}

type tutorialData struct {
	Topic   string `json:"topic" validate:"required"`
	Format  string `json:"format" validate:"required,oneof=video article series workshop"`
	Outline string `json:"outline"`
}

type researchData struct {
	ResearchQuestion string `json:"research_question" validate:"required"`
	Methodology      string `json:"methodology"`
	TargetVenue      string `json:"target_venue"`
}

// ValidateTypeSpecific checks the JSON attribute bag against the schema
// selected by the beacon type. On failure it returns a field→issue map;
// the caller wraps it into a structured validation error.
func ValidateTypeSpecific(beaconType, raw string) map[string]string {
	var target interface{}
	switch beaconType {
	case models.BeaconTypeLearning:
		target = &learningData{}
	case models.BeaconTypePortfolio:
		target = &portfolioData{}
	case models.BeaconTypeOpenSource:
		target = &openSourceData{}
	case models.BeaconTypeHackathon:
		target = &hackathonData{}
	case models.BeaconTypeTutorial:
		target = &tutorialData{}
	case models.BeaconTypeResearch:
		target = &researchData{}
	default:
		return map[string]string{"beacon_type": "unrecognized beacon type"}
	}

	if raw == "" {
		raw = "{}"
	}
	if err := json.Unmarshal([]byte(raw), target); err != nil {
		return map[string]string{"type_specific_data": "not a valid JSON object"}
	}

	if err := validate.Struct(target); err != nil {
		var verrs validator.ValidationErrors
		fields := map[string]string{}
		if ok := asValidationErrors(err, &verrs); ok {
			for _, fe := range verrs {
				fields[jsonFieldName(target, fe.StructField())] = describeTag(fe)
			}
		} else {
			fields["type_specific_data"] = err.Error()
		}
		return fields
	}

	return nil
}

func asValidationErrors(err error, target *validator.ValidationErrors) bool {
	verrs, ok := err.(validator.ValidationErrors)
	if ok {
		*target = verrs
	}
	return ok
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "url":
		return "must be a valid URL"
	case "datetime":
		return fmt.Sprintf("must match format %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

// jsonFieldName maps a struct field back to its json tag so errors use
// the wire names clients sent.
func jsonFieldName(target interface{}, structField string) string {
	t := reflect.TypeOf(target)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if f, ok := t.FieldByName(structField); ok {
		tag := strings.Split(f.Tag.Get("json"), ",")[0]
		if tag != "" && tag != "-" {
			return tag
		}
	}
	return structField
}
