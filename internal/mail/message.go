package mail

import "time"

// WelcomeMessage is the payload published when a registration is created. It
// carries everything the mailer needs so the worker never reads the database.
type WelcomeMessage struct {
	Student    WelcomeStudent `json:"student"`
	Plan       WelcomePlan    `json:"plan"`
	StartDate  time.Time      `json:"start_date"`
	EndDate    time.Time      `json:"end_date"`
	TotalPrice float64        `json:"total_price"`
}

// WelcomeStudent identifies the mail recipient.
type WelcomeStudent struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// WelcomePlan describes the purchased plan.
type WelcomePlan struct {
	Title    string  `json:"title"`
	Price    float64 `json:"price"`
	Duration int     `json:"duration"`
}
