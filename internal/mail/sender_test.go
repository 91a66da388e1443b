package mail

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/arturffsantos/gympoint/pkg/config"
)

func TestRenderWelcome(t *testing.T) {
	msg := WelcomeMessage{
		Student:    WelcomeStudent{Name: "Ana", Email: "ana@example.com"},
		Plan:       WelcomePlan{Title: "Gold", Price: 109, Duration: 3},
		StartDate:  time.Date(2020, time.January, 15, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2020, time.April, 15, 0, 0, 0, 0, time.UTC),
		TotalPrice: 327,
	}

	body := renderWelcome(msg)
	assert.Contains(t, body, "Hello Ana")
	assert.Contains(t, body, "Plan: Gold")
	assert.Contains(t, body, "Start date: January 15, 2020")
	assert.Contains(t, body, "End date: April 15, 2020")
	assert.Contains(t, body, "Total for 3 month(s): $327.00")
}

func TestHandleDeliveryRejectsGarbage(t *testing.T) {
	sender := NewSender(config.SMTPConfig{}, zap.NewNop())

	err := sender.HandleDelivery([]byte("{not json"))
	require.Error(t, err)
}
