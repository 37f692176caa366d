package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"sqrts/internal/apiclient"
	"sqrts/internal/forms"
	"sqrts/internal/session"
	"sqrts/internal/validation"
)

func (a *app) run(ctx context.Context, cmd string, o options) error {
	switch cmd {
	case "register":
		return a.register(ctx, o)
	case "verify-otp":
		return a.verifyOTP(ctx, o)
	case "send-otp":
		return a.sendOTP(ctx, o)
	case "login":
		return a.login(ctx, o)
	case "change-password":
		return a.changePassword(ctx, o)
	case "refresh":
		u, err := a.refresher.Refresh(ctx, true)
		if err != nil {
			return err
		}
		fmt.Println("Tokens refreshed for", u.Email)
		return nil
	case "guest":
		return forms.NewRegistrationForm(a.deps()).ContinueAsGuest()
	case "whoami":
		return a.whoami()
	case "logout":
		return a.logout(ctx)
	case "tickets", "purchase", "refund", "users", "payment-intent":
		return a.authed(ctx, cmd, o)
	case "fares":
		return a.show(a.client.GetFares(ctx, o.mode))
	case "routes":
		return a.show(a.client.GetRoutes(ctx, o.mode))
	case "feedback":
		return a.feedback(ctx, o)
	case "message":
		return a.show(a.client.SendMessage(ctx, apiclient.MessageData{To: o.to, Subject: o.subject, Body: o.body}))
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func (a *app) deps() forms.Deps {
	return forms.Deps{
		Client:   a.client,
		Store:    a.store,
		Log:      a.log,
		Navigate: func(route string) { fmt.Println("->", route) },
	}
}

// ===== Account flows =====

func (a *app) register(ctx context.Context, o options) error {
	f := forms.NewRegistrationForm(a.deps())
	f.Username = a.prompt("Username", o.userName)
	f.PhoneNumber = a.prompt("Phone number", o.phone)
	f.Email = a.prompt("Email", o.email)
	f.Password = a.prompt("Password", o.password)

	fmt.Println("[1] Registering", f.Email, "at", a.client.BaseURL())
	if err := f.Submit(ctx); err != nil {
		printForm(f.Banner, f.Errors)
		return err
	}
	fmt.Println("[2] Registered. An OTP was sent to", f.OTP.Props.PhoneNumber)

	code := a.prompt("OTP (blank to verify later)", o.otp)
	if code == "" {
		fmt.Println("Run -cmd verify-otp -otp <code> when the code arrives.")
		return nil
	}
	f.OTP.Code = code
	if err := f.OTP.Verify(ctx); err != nil {
		printForm(f.OTP.Banner, f.OTP.Errors)
		return err
	}
	fmt.Println("[3] Account verified.")
	return nil
}

// otpProps rebuilds the OTP dialog input from flags and the stored session.
func (a *app) otpProps(o options) forms.UserProps {
	p := forms.UserProps{Email: o.email, PhoneNumber: o.phone, Role: apiclient.RoleUser}
	if u, err := session.Load(a.store); err == nil {
		if p.Email == "" {
			p.Email = u.Email
		}
		if p.PhoneNumber == "" {
			p.PhoneNumber = u.PhoneNumber
		}
		p.UserName = u.UserName
	}
	return p
}

func (a *app) verifyOTP(ctx context.Context, o options) error {
	f := forms.NewOTPForm(a.deps(), a.otpProps(o))
	if f.Props.Email == "" {
		f.Props.Email = a.prompt("Email", "")
	}
	f.Code = a.prompt("OTP", o.otp)
	if err := f.Verify(ctx); err != nil {
		printForm(f.Banner, f.Errors)
		return err
	}
	fmt.Println("Account verified.")
	return nil
}

func (a *app) sendOTP(ctx context.Context, o options) error {
	f := forms.NewOTPForm(a.deps(), a.otpProps(o))
	if f.Props.Email == "" {
		f.Props.Email = a.prompt("Email", "")
	}
	if err := f.Resend(ctx); err != nil {
		printForm(f.Banner, f.Errors)
		return err
	}
	fmt.Println(f.Notice)
	return nil
}

func (a *app) login(ctx context.Context, o options) error {
	f := forms.NewLoginForm(a.deps())
	f.Email = a.prompt("Email", o.email)
	f.Password = a.prompt("Password", o.password)
	if err := f.Submit(ctx); err != nil {
		printForm(f.Banner, f.Errors)
		return err
	}
	fmt.Println("Signed in as", f.Email)
	return nil
}

func (a *app) changePassword(ctx context.Context, o options) error {
	f := forms.NewChangePasswordForm(a.deps())
	if err := f.Mount(); err != nil {
		return err
	}
	if f.Email == "" {
		return errors.New("no stored session; run -cmd login first")
	}
	fmt.Println("Changing password for", f.Email)
	f.OldPassword = a.prompt("Current password", o.oldPassword)
	f.NewPassword = a.prompt("New password", o.newPassword)
	f.ConfirmPassword = a.prompt("Confirm new password", o.confirm)
	if err := f.Submit(ctx); err != nil {
		printForm(f.Banner, f.Errors)
		return err
	}
	if f.ShowSuccess {
		fmt.Println("Password changed.")
		f.DismissSuccess()
	}
	return nil
}

func (a *app) whoami() error {
	guest := session.IsGuest(a.store)
	u, err := session.Load(a.store)
	if errors.Is(err, session.ErrNoSession) {
		if guest {
			fmt.Println("Guest session")
		} else {
			fmt.Println("Not signed in")
		}
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Printf("Email:         %s\n", u.Email)
	fmt.Printf("User name:     %s\n", u.UserName)
	fmt.Printf("Role:          %s\n", u.Role)
	fmt.Printf("Authenticated: %t\n", u.IsAuthenticated)
	fmt.Printf("Guest:         %t\n", guest)
	if exp, err := session.TokenExpiry(u.AccessToken); err == nil {
		fmt.Printf("Token expires: %s\n", exp.Local().Format(time.RFC1123))
	}
	return nil
}

func (a *app) logout(ctx context.Context) error {
	u, err := session.Load(a.store)
	if err == nil {
		if _, err := a.client.Logout(ctx, u.Email); err != nil {
			a.log.Warnf("logout: %v", err)
		}
	}
	if err := session.Clear(a.store); err != nil {
		return err
	}
	if err := session.SetGuest(a.store, false); err != nil {
		return err
	}
	fmt.Println("Signed out.")
	return nil
}

// ===== Ticketing =====

// authed refreshes a stale access token before calling a protected endpoint.
func (a *app) authed(ctx context.Context, cmd string, o options) error {
	u, err := a.refresher.Refresh(ctx, false)
	if err != nil {
		return fmt.Errorf("%s needs a signed-in session: %w", cmd, err)
	}
	email := o.email
	if email == "" {
		email = u.Email
	}

	switch cmd {
	case "tickets":
		return a.show(a.client.GetTickets(ctx, email))
	case "purchase":
		return a.show(a.client.PurchaseTicket(ctx, apiclient.PurchaseData{
			Email:    email,
			RouteID:  a.prompt("Route id", o.routeID),
			FareType: o.fareType,
			Quantity: o.quantity,
		}))
	case "refund":
		return a.show(a.client.RefundTicket(ctx, apiclient.RefundData{
			Email:    email,
			TicketID: a.prompt("Ticket id", o.ticketID),
		}))
	case "users":
		return a.show(a.client.GetUsers(ctx))
	case "payment-intent":
		return a.show(a.client.CreatePaymentIntent(ctx, apiclient.PaymentIntentData{
			Email:    email,
			Amount:   o.amount,
			Currency: o.currency,
		}))
	}
	return fmt.Errorf("unknown command %q", cmd)
}

func (a *app) feedback(ctx context.Context, o options) error {
	data := apiclient.FeedbackData{"message": a.prompt("Feedback", o.body)}
	if o.rating > 0 {
		data["rating"] = o.rating
	}
	if u, err := session.Load(a.store); err == nil {
		data["email"] = u.Email
	}
	resp := a.client.SendFeedback(ctx, data)
	if !resp.OK() {
		return fmt.Errorf("feedback failed with status %d", resp.Status)
	}
	fmt.Println("Thanks for the feedback.")
	return nil
}

// ===== Helpers =====

// prompt returns value when set, otherwise asks on stdin.
func (a *app) prompt(label, value string) string {
	if value != "" {
		return value
	}
	fmt.Printf("%s: ", label)
	line, _ := a.in.ReadString('\n')
	return strings.TrimSpace(line)
}

// show prints a response body, indented when it is JSON.
func (a *app) show(resp *apiclient.Response, err error) error {
	if err != nil {
		return err
	}
	var out bytes.Buffer
	if json.Indent(&out, resp.Body, "", "  ") != nil {
		out.Reset()
		out.Write(resp.Body)
	}
	fmt.Println(out.String())
	if !resp.OK() {
		return fmt.Errorf("server returned status %d", resp.Status)
	}
	return nil
}

func printForm(banner string, errs validation.Result) {
	for _, field := range errs.Fields() {
		fmt.Printf("  %s: %s\n", field, errs.Get(field))
	}
	if banner != "" {
		fmt.Println(banner)
	}
}
