package config

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
)

const tagRequiredForSupabase = "required_for_supabase"

func newValidator() (*validator.Validate, ut.Translator, error) {
	validate := validator.New()

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ := uni.GetTranslator("en")
	if err := enTranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, nil, fmt.Errorf("failed to register default translations: %w", err)
	}

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	validate.RegisterStructValidation(validateSupabaseDriver, Config{})
	if err := validate.RegisterTranslation(tagRequiredForSupabase, trans, func(ut ut.Translator) error {
		return ut.Add(tagRequiredForSupabase, "{0} is required when remote.driver is supabase", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T(tagRequiredForSupabase, fe.Field())
		return t
	}); err != nil {
		return nil, nil, fmt.Errorf("failed to register %s translation: %w", tagRequiredForSupabase, err)
	}

	return validate, trans, nil
}

func validateSupabaseDriver(sl validator.StructLevel) {
	cfg := sl.Current().Interface().(Config)
	if cfg.Remote.Driver != RemoteDriverSupabase {
		return
	}
	if cfg.Supabase.URL == "" {
		sl.ReportError(cfg.Supabase.URL, "supabase.url", "URL", tagRequiredForSupabase, "")
	}
	if cfg.Supabase.APIKey == "" {
		sl.ReportError(cfg.Supabase.APIKey, "supabase.api_key", "APIKey", tagRequiredForSupabase, "")
	}
}
