package apiclient

// RoleUser is the role assigned to self-registered accounts.
const RoleUser = "ROLE_USER"

type RegistrationData struct {
	UserName    string `json:"userName"`
	PhoneNumber string `json:"phoneNumber"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Role        string `json:"role"`
}

type LoginData struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by the register, authenticate and refresh endpoints.
type AuthResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	UserName     string `json:"userName"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	UserID       string `json:"userId,omitempty"`
	PhoneNumber  string `json:"phoneNumber,omitempty"`
}

// FeedbackData is forwarded verbatim.
type FeedbackData map[string]any

type ChangePasswordData struct {
	Email                string `json:"email"`
	CurrentPassword      string `json:"currentPassword"`
	NewPassword          string `json:"newPassword"`
	ConfirmationPassword string `json:"confirmationPassword"`
}

type OTPData struct {
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	OTP         string `json:"otp,omitempty"`
}

type RefreshData struct {
	RefreshToken string `json:"refreshToken"`
}

type PurchaseData struct {
	Email     string  `json:"email"`
	RouteID   string  `json:"routeId"`
	FareType  string  `json:"fareType"`
	Quantity  int     `json:"quantity"`
	Amount    float64 `json:"amount,omitempty"`
	PaymentID string  `json:"paymentIntentId,omitempty"`
}

type RefundData struct {
	Email    string `json:"email"`
	TicketID string `json:"ticketId"`
}

type PaymentIntentData struct {
	Email    string  `json:"email"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

type MessageData struct {
	To      string `json:"to"`
	Subject string `json:"subject,omitempty"`
	Body    string `json:"body"`
}
