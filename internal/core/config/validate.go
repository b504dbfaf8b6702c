package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/hay-kot/criterio"
)

// ValidationWarning represents a non-fatal configuration issue.
type ValidationWarning struct {
	Category string `json:"category"`
	Item     string `json:"item,omitempty"`
	Message  string `json:"message"`
}

// Validate checks that the configuration is valid. Errors are returned as
// criterio.FieldErrors so callers can report each field.
func (c *Config) Validate() error {
	var errs criterio.FieldErrorsBuilder

	if c.DataDir == "" {
		errs = errs.Append("data_dir", fmt.Errorf("data directory cannot be empty"))
	}

	if c.Backend.URL == "" {
		errs = errs.Append("backend.url", fmt.Errorf("cannot be empty"))
	} else if u, err := url.Parse(c.Backend.URL); err != nil {
		errs = errs.Append("backend.url", fmt.Errorf("invalid url: %w", err))
	} else if u.Scheme != "http" && u.Scheme != "https" {
		errs = errs.Append("backend.url", fmt.Errorf("scheme must be http or https, got %q", u.Scheme))
	}

	if c.Backend.RequestTimeout < 0 {
		errs = errs.Append("backend.request_timeout", fmt.Errorf("must not be negative"))
	}

	if c.Poll.Interval <= 0 {
		errs = errs.Append("poll.interval", fmt.Errorf("must be positive"))
	}

	if c.Poll.Timeout <= 0 {
		errs = errs.Append("poll.timeout", fmt.Errorf("must be positive"))
	} else if c.Poll.Interval > 0 && c.Poll.Timeout < c.Poll.Interval {
		errs = errs.Append("poll.timeout", fmt.Errorf("must be at least poll.interval (%s)", c.Poll.Interval))
	}

	if c.Display.Timezone != "" {
		if _, err := time.LoadLocation(c.Display.Timezone); err != nil {
			errs = errs.Append("display.timezone", fmt.Errorf("unknown time zone %q", c.Display.Timezone))
		}
	}

	return errs.ToError()
}

// Warnings returns non-fatal issues with the configuration.
func (c *Config) Warnings() []ValidationWarning {
	var warnings []ValidationWarning

	if u, err := url.Parse(c.Backend.URL); err == nil && u.Scheme == "http" && u.Hostname() != "localhost" && u.Hostname() != "127.0.0.1" {
		warnings = append(warnings, ValidationWarning{
			Category: "Backend",
			Item:     "url",
			Message:  "credentials are sent over plain http to a remote host",
		})
	}

	if c.Poll.Timeout > 0 && c.Poll.Interval > 0 && c.Poll.Timeout/c.Poll.Interval > 120 {
		warnings = append(warnings, ValidationWarning{
			Category: "Poll",
			Item:     "interval",
			Message:  fmt.Sprintf("%d polls per fetch may put load on the backend", c.Poll.Timeout/c.Poll.Interval),
		})
	}

	return warnings
}
