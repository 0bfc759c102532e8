package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/target/ims-ui/internal/domain/model"
)

func TestFormatNumberTemplate(t *testing.T) {
	assert.Equal(t, "0", formatNumberTemplate(0))
	assert.Equal(t, "999", formatNumberTemplate(999))
	assert.Equal(t, "1,000", formatNumberTemplate(1000))
	assert.Equal(t, "-1,234,567", formatNumberTemplate(int64(-1234567)))
	assert.Equal(t, "1.5", formatNumberTemplate(1.5))
}

func TestStatusClass(t *testing.T) {
	assert.Equal(t, "badge-success", statusClass(model.TransactionCompleted))
	assert.Equal(t, "badge-success", statusClass(model.RequestApproved))
	assert.Equal(t, "badge-warning", statusClass("pending"))
	assert.Equal(t, "badge-danger", statusClass(model.RequestRejected))
	assert.Equal(t, "badge-light", statusClass("UNKNOWN"))
}

func TestHumanize(t *testing.T) {
	assert.Equal(t, "Return to supplier", humanize(model.TransactionReturnToSupplier))
	assert.Equal(t, "Purchase", humanize("PURCHASE"))
	assert.Equal(t, "", humanize(""))
}

func TestFriendlyTime(t *testing.T) {
	at := time.Date(2024, 3, 4, 15, 30, 0, 0, time.UTC)
	assert.Equal(t, "Mar 4, 2024 3:30 PM", friendlyTime(model.NewLocalTime(at)))
	assert.Equal(t, "Mar 4, 2024 3:30 PM", friendlyTime(at))
	assert.Equal(t, "", friendlyTime(model.LocalTime{}))
	assert.Equal(t, "", friendlyTime("not a time"))
}

func TestTruncateText(t *testing.T) {
	assert.Equal(t, "abc…", TruncateText("abcdefg", 4))
	assert.Equal(t, "abcdefg", TruncateText("abcdefg", "x"))
}
