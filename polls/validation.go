// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package polls

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/danielhkuo/polly/models"
)

const requiredMessage = "Title and at least 2 options are required"

var fieldMessages = map[string]string{
	"Title":       "Title must be at most 200 characters",
	"Description": "Description must be at most 1000 characters",
	"Options":     "Options must be at most 200 characters each",
}

// normalize trims the title, description and options, drops blank
// options, and enforces presence and length limits.
func (r *Repository) normalize(req models.CreatePollRequest) (models.CreatePollRequest, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)

	options := make([]string, 0, len(req.Options))
	for _, option := range req.Options {
		if option = strings.TrimSpace(option); option != "" {
			options = append(options, option)
		}
	}
	req.Options = options

	if req.Title == "" || len(req.Options) < 2 {
		return req, models.InvalidInput(requiredMessage)
	}

	if err := r.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			field := verrs[0].StructField()
			if strings.HasPrefix(field, "Options[") {
				field = "Options"
			}
			if msg, ok := fieldMessages[field]; ok {
				return req, models.InvalidInput(msg)
			}
		}
		return req, models.InvalidInput("Invalid poll")
	}
	return req, nil
}
