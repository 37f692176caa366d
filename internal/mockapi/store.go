package mockapi

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTicketNotFound     = errors.New("ticket not found")
	ErrTicketRefunded     = errors.New("ticket already refunded")
)

type User struct {
	ID           string    `json:"userId"`
	UserName     string    `json:"userName"`
	Email        string    `json:"email"`
	PhoneNumber  string    `json:"phoneNumber"`
	Role         string    `json:"role"`
	PasswordHash string    `json:"-"`
	Verified     bool      `json:"verified"`
	CreatedAt    time.Time `json:"createdAt"`
}

// UserStore keeps accounts keyed by lower-cased email.
type UserStore struct {
	mu    sync.RWMutex
	users map[string]*User
}

func NewUserStore() *UserStore {
	return &UserStore{users: make(map[string]*User)}
}

func emailKey(email string) string { return strings.ToLower(strings.TrimSpace(email)) }

// Create hashes password and stores a new account.
func (s *UserStore) Create(userName, email, phone, role, password string) (*User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	key := emailKey(email)
	if _, ok := s.users[key]; ok {
		return nil, ErrUserExists
	}
	u := &User{
		ID:           "u--" + uuid.NewString(),
		UserName:     userName,
		Email:        email,
		PhoneNumber:  phone,
		Role:         role,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	s.users[key] = u
	cp := *u
	return &cp, nil
}

func (s *UserStore) Get(email string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[emailKey(email)]
	if !ok {
		return nil, ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

// Authenticate checks the password of the account behind email.
func (s *UserStore) Authenticate(email, password string) (*User, error) {
	u, err := s.Get(email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// SetPassword replaces the password hash.
func (s *UserStore) SetPassword(email, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[emailKey(email)]
	if !ok {
		return ErrUserNotFound
	}
	u.PasswordHash = string(hash)
	return nil
}

func (s *UserStore) MarkVerified(email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[emailKey(email)]
	if !ok {
		return ErrUserNotFound
	}
	u.Verified = true
	return nil
}

// List returns every account ordered by email.
func (s *UserStore) List() []User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out
}

const (
	TicketActive   = "ACTIVE"
	TicketRefunded = "REFUNDED"
)

// Ticket is a purchased ride. QRData is what the gate scanner reads.
type Ticket struct {
	ID          string    `json:"ticketId"`
	Email       string    `json:"email"`
	RouteID     string    `json:"routeId"`
	FareType    string    `json:"fareType"`
	Quantity    int       `json:"quantity"`
	Amount      float64   `json:"amount"`
	Status      string    `json:"status"`
	QRData      string    `json:"qrData"`
	PurchasedAt time.Time `json:"purchasedAt"`
}

type TicketStore struct {
	mu      sync.RWMutex
	tickets map[string]*Ticket
	order   []string
}

func NewTicketStore() *TicketStore {
	return &TicketStore{tickets: make(map[string]*Ticket)}
}

func (s *TicketStore) Add(t Ticket) Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	t.ID = "t--" + uuid.NewString()
	t.Status = TicketActive
	t.QRData = "SQRTS:" + t.ID
	t.PurchasedAt = time.Now().UTC()
	s.tickets[t.ID] = &t
	s.order = append(s.order, t.ID)
	return t
}

// ForEmail lists tickets in purchase order.
func (s *TicketStore) ForEmail(email string) []Ticket {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []Ticket{}
	for _, id := range s.order {
		t := s.tickets[id]
		if emailKey(t.Email) == emailKey(email) {
			out = append(out, *t)
		}
	}
	return out
}

func (s *TicketStore) Refund(id, email string) (Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tickets[id]
	if !ok || emailKey(t.Email) != emailKey(email) {
		return Ticket{}, ErrTicketNotFound
	}
	if t.Status == TicketRefunded {
		return Ticket{}, ErrTicketRefunded
	}
	t.Status = TicketRefunded
	return *t, nil
}

// FeedbackStore keeps raw feedback payloads.
type FeedbackStore struct {
	mu      sync.Mutex
	entries []map[string]any
}

func NewFeedbackStore() *FeedbackStore { return &FeedbackStore{} }

func (s *FeedbackStore) Add(entry map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
}

func (s *FeedbackStore) All() []map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]map[string]any(nil), s.entries...)
}
