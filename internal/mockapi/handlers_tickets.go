package mockapi

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"sqrts/internal/apiclient"
)

const roleAdmin = "ROLE_ADMIN"

// ownerEmail resolves the account a ticket request acts on. Only admins may
// act for someone else.
func ownerEmail(r *http.Request, requested string) (string, int, string) {
	claims, err := claimsFrom(r.Context())
	if err != nil {
		return "", http.StatusUnauthorized, err.Error()
	}
	if requested == "" {
		return claims.Email, 0, ""
	}
	if !strings.EqualFold(requested, claims.Email) && claims.Role != roleAdmin {
		return "", http.StatusForbidden, "forbidden"
	}
	return requested, 0, ""
}

func (s *Server) handleServiceStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		ModeTrain: "NORMAL",
		ModeBus:   "NORMAL",
	})
}

func (s *Server) handleGetTickets(w http.ResponseWriter, r *http.Request) {
	email, status, msg := ownerEmail(r, r.URL.Query().Get("email"))
	if status != 0 {
		writeError(w, status, msg)
		return
	}
	writeJSON(w, http.StatusOK, s.tickets.ForEmail(email))
}

func (s *Server) handlePurchase(w http.ResponseWriter, r *http.Request) {
	var req apiclient.PurchaseData
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	email, status, msg := ownerEmail(r, req.Email)
	if status != 0 {
		writeError(w, status, msg)
		return
	}
	if req.Quantity <= 0 {
		req.Quantity = 1
	}
	fare, ok := lookupFare(req.RouteID, req.FareType)
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown route or fare type")
		return
	}
	t := s.tickets.Add(Ticket{
		Email:    email,
		RouteID:  fare.RouteID,
		FareType: fare.FareType,
		Quantity: req.Quantity,
		Amount:   roundCents(fare.Amount * float64(req.Quantity)),
	})
	s.log.Infof("ticket %s purchased by %s", t.ID, email)
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleRefund(w http.ResponseWriter, r *http.Request) {
	var req apiclient.RefundData
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	email, status, msg := ownerEmail(r, req.Email)
	if status != 0 {
		writeError(w, status, msg)
		return
	}
	t, err := s.tickets.Refund(req.TicketID, email)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleFares(mode string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, faresFor(mode))
	}
}

func (s *Server) handleFare(mode string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		fare, ok := findFare(mode, q.Get("routeId"), q.Get("fareType"))
		if !ok {
			writeError(w, http.StatusNotFound, "fare not found")
			return
		}
		writeJSON(w, http.StatusOK, fare)
	}
}

func (s *Server) handleRoutes(mode string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, routes[mode])
	}
}

func (s *Server) handlePaymentIntent(w http.ResponseWriter, r *http.Request) {
	var req apiclient.PaymentIntentData
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Amount <= 0 {
		writeError(w, http.StatusBadRequest, "amount must be positive")
		return
	}
	if req.Currency == "" {
		req.Currency = "sgd"
	}
	id := "pi_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	writeJSON(w, http.StatusOK, map[string]any{
		"paymentIntentId": id,
		"clientSecret":    id + "_secret_" + uuid.NewString()[:8],
		"amount":          req.Amount,
		"currency":        req.Currency,
		"status":          "requires_confirmation",
	})
}

func (s *Server) handleSetupIntent(w http.ResponseWriter, _ *http.Request) {
	id := "seti_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	writeJSON(w, http.StatusOK, map[string]string{"setupIntentId": id, "clientSecret": id + "_secret"})
}

func (s *Server) handleFetchCards(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, []any{})
}

func (s *Server) handleAck(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, responseMsg{ResponseMsg: "OK"})
}

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	var req apiclient.MessageData
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.To == "" || req.Body == "" {
		writeError(w, http.StatusBadRequest, "to and body are required")
		return
	}
	if err := s.notifier.SendSMS(req.To, req.Body); err != nil {
		s.log.Errorf("send message to %s: %v", req.To, err)
		writeError(w, http.StatusBadGateway, "failed to send message")
		return
	}
	writeJSON(w, http.StatusOK, responseMsg{ResponseMsg: "Message sent"})
}

func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	var req map[string]any
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.feedback.Add(req)
	writeJSON(w, http.StatusOK, responseMsg{ResponseMsg: "Feedback received"})
}
