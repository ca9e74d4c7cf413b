package models

import "time"

// Stats backs the dashboard counters.
type Stats struct {
	TotalUsers       Count `json:"total_users"`
	TotalMagnets     Count `json:"total_magnets"`
	CompletedMagnets Count `json:"completed_magnets"`
	AwaitingMagnets  Count `json:"awaiting_magnets"`
}

type User struct {
	ID        ID        `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type Report struct {
	ID        ID        `json:"id"`
	UserName  string    `json:"user_name"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateReferralRequest asks the backend for an employee referral link; an
// empty slug lets the backend pick one.
type CreateReferralRequest struct {
	EmployeeID ID     `json:"employeeId"`
	Slug       string `json:"slug,omitempty"`
}

// Delivery is one product handed to a buyer.
type Delivery struct {
	ID           ID        `json:"id"`
	BuyerName    string    `json:"buyer_name"`
	BuyerEmail   string    `json:"buyer_email"`
	ProductName  string    `json:"product_name"`
	DeliveredAt  time.Time `json:"delivered_at"`
	LandingURL   string    `json:"landing_url"`
	DownloadURL  string    `json:"download_url"`
	ThankYouSent Flag      `json:"thank_you_sent"`
}

// DeliveryPage is one 1-based page of deliveries.
type DeliveryPage struct {
	Deliveries []Delivery
	Page       int
	TotalPages int
}

type Employee struct {
	ID    ID     `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// EmployeeReferral is a signup attributed to an employee's referral link.
type EmployeeReferral struct {
	ID               ID        `json:"id"`
	EmployeeName     string    `json:"employee_name"`
	ReferredEmail    string    `json:"referred_email"`
	ReferredUserID   ID        `json:"referred_user_id"`
	ReferredUserName string    `json:"referred_user_name"`
	CreatedAt        time.Time `json:"created_at"`
}

// ReferralPage is one 1-based page of employee referrals.
type ReferralPage struct {
	Referrals  []EmployeeReferral
	Page       int
	TotalPages int
}
