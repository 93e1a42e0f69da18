package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidateCronSchedule(t *testing.T) {
	valid := []string{"*/1 * * * *", "*/5 * * * *", "0 */6 * * *", "30 9 * * 1-5", "0 0 1 * *"}
	for _, s := range valid {
		assert.NoError(t, ValidateCronSchedule(s), s)
	}

	invalid := []string{"", "* * * *", "60 * * * *", "*/1 * * * * *", "@every"}
	for _, s := range invalid {
		assert.Error(t, ValidateCronSchedule(s), s)
	}

	err := ValidateCronSchedule("61 * * * *")
	assert.ErrorContains(t, err, "invalid cron schedule '61 * * * *'")
}

func TestValidateTimezone(t *testing.T) {
	for _, tz := range []string{"UTC", "Europe/London", "America/New_York"} {
		assert.NoError(t, ValidateTimezone(tz), tz)
	}
	assert.ErrorContains(t, ValidateTimezone(""), "cannot be empty")
	assert.ErrorContains(t, ValidateTimezone("Mars/Olympus_Mons"), "invalid timezone 'Mars/Olympus_Mons'")
}

func TestValidateDuration(t *testing.T) {
	tests := []struct {
		name    string
		d       time.Duration
		min     time.Duration
		max     time.Duration
		wantErr string
	}{
		{"inside", 30 * time.Second, time.Second, time.Minute, ""},
		{"at min", time.Second, time.Second, time.Minute, ""},
		{"at max", time.Minute, time.Second, time.Minute, ""},
		{"below", 0, time.Second, time.Minute, "below minimum"},
		{"above", time.Hour, time.Second, time.Minute, "exceeds maximum"},
		{"inverted range", time.Second, time.Minute, time.Second, "invalid range"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDuration(tt.d, tt.min, tt.max)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestValidateIntRange(t *testing.T) {
	assert.NoError(t, ValidateIntRange(1, 1, 16))
	assert.NoError(t, ValidateIntRange(16, 1, 16))
	assert.ErrorContains(t, ValidateIntRange(0, 1, 16), "value 0 is below minimum 1")
	assert.ErrorContains(t, ValidateIntRange(17, 1, 16), "value 17 exceeds maximum 16")
	assert.ErrorContains(t, ValidateIntRange(5, 10, 1), "invalid range")
}

func TestValidateInt64Range(t *testing.T) {
	assert.NoError(t, ValidateInt64Range(10<<20, 1<<10, 100<<20))
	assert.Error(t, ValidateInt64Range(200<<20, 1<<10, 100<<20))
}

func TestValidatePositiveDuration(t *testing.T) {
	assert.NoError(t, ValidatePositiveDuration(time.Nanosecond))
	assert.ErrorContains(t, ValidatePositiveDuration(0), "must be positive")
	assert.Error(t, ValidatePositiveDuration(-time.Second))
}

func TestValidatePort(t *testing.T) {
	assert.NoError(t, ValidatePort(9091))
	assert.Error(t, ValidatePort(80))
	assert.Error(t, ValidatePort(70000))
}
