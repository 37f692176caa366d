package apiclient

// Endpoint is a backend path relative to the client's base URL.
type Endpoint string

// User endpoints
const (
	GetUsers       Endpoint = "users/GetUsers"
	Logout         Endpoint = "users/Logout"
	ChangePassword Endpoint = "users/ChangePassword"
)

// Ticket endpoints
const (
	GetTickets     Endpoint = "tickets/Tickets"
	ServiceStatus  Endpoint = "tickets/ServiceStatus"
	RefundTickets  Endpoint = "tickets/RefundTickets"
	Refund         Endpoint = "tickets/Refund"
	PurchaseTicket Endpoint = "tickets/PurchaseTicket"
)

// Payment endpoints
const (
	PaymentHook                  Endpoint = "payments/webhook"
	PaymentRefund                Endpoint = "payments/Refund"
	FetchCustomerCards           Endpoint = "payments/FetchCustomerCards"
	DeletePaymentMethod          Endpoint = "payments/DeletePaymentMethod"
	CreateSetupIntent            Endpoint = "payments/CreateSetupIntent"
	CreatePaymentIntent          Endpoint = "payments/CreatePaymentIntent"
	CreatePaymentIntentByNewCard Endpoint = "payments/CreatePaymentIntentByNewCard"
)

const (
	SendMessage Endpoint = "message/send"
	Feedback    Endpoint = "general/Feedback"
)

// Fare endpoints
const (
	GetAllTrainFare Endpoint = "fares/GetAllTrainFare"
	GetAllBusFare   Endpoint = "fares/GetAllBusFare"
	GetTrainFare    Endpoint = "fares/GetTrainFare"
	GetBusFare      Endpoint = "fares/GetBusFare"
)

// Auth endpoints
const (
	ValidateOTP  Endpoint = "auth/ValidateOtp"
	SendOTP      Endpoint = "auth/SendOtp"
	Register     Endpoint = "auth/Register"
	RefreshToken Endpoint = "auth/RefreshToken"
	Authenticate Endpoint = "auth/Authenticate"
)

// Route endpoints
const (
	GetAllTrainRoutes Endpoint = "routes/GetAllTrainRoutes"
	GetAllBusRoutes   Endpoint = "routes/GetAllBusRoutes"
)

// Endpoints lists every known endpoint.
var Endpoints = []Endpoint{
	GetUsers, Logout, ChangePassword,
	GetTickets, ServiceStatus, RefundTickets, Refund, PurchaseTicket,
	PaymentHook, PaymentRefund, FetchCustomerCards, DeletePaymentMethod,
	CreateSetupIntent, CreatePaymentIntent, CreatePaymentIntentByNewCard,
	SendMessage, Feedback,
	GetAllTrainFare, GetAllBusFare, GetTrainFare, GetBusFare,
	ValidateOTP, SendOTP, Register, RefreshToken, Authenticate,
	GetAllTrainRoutes, GetAllBusRoutes,
}
