package api

import (
	"sync" // One-time registration

	"travel_photos/internal/domain" // Photo statuses

	"github.com/gin-gonic/gin/binding"       // Gin's validator engine
	"github.com/go-playground/validator/v10" // Validation rules
	"github.com/sirupsen/logrus"             // Structured logging
)

var registerOnce sync.Once

// RegisterValidators adds the custom binding rules. Safe to call repeatedly.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			logrus.Warn("Gin validator engine is not go-playground/validator; custom rules not registered")
			return
		}
		// photostatus accepts the statuses a moderator can set
		if err := v.RegisterValidation("photostatus", func(fl validator.FieldLevel) bool {
			return domain.ModerationTarget(fl.Field().String())
		}); err != nil {
			logrus.WithError(err).Fatal("Failed to register photostatus validator")
		}
	})
}
