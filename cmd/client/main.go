package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"

	"sqrts/internal/apiclient"
	"sqrts/internal/certs"
	"sqrts/internal/config"
	"sqrts/internal/crypto"
	"sqrts/internal/device"
	"sqrts/internal/logging"
	"sqrts/internal/session"
)

const usage = "Command: register|verify-otp|send-otp|login|change-password|refresh|guest|whoami|logout|" +
	"tickets|purchase|refund|fares|routes|users|feedback|message|payment-intent"

type options struct {
	userName    string
	phone       string
	email       string
	password    string
	otp         string
	oldPassword string
	newPassword string
	confirm     string
	routeID     string
	fareType    string
	quantity    int
	ticketID    string
	mode        string
	amount      float64
	currency    string
	to          string
	subject     string
	body        string
	rating      int
}

func main() {
	cmd := flag.String("cmd", "whoami", usage)
	configPath := flag.String("config", "sqrts.yaml", "Optional YAML config file")
	envFlag := flag.String("env", "", "Environment: local|staging")
	serverFlag := flag.String("server", "", "Override API base URL (e.g. http://localhost:8071/qr_gen_api/api/v1/)")

	var o options
	flag.StringVar(&o.userName, "username", "", "User name (register)")
	flag.StringVar(&o.phone, "phone", "", "Phone number, 8 digits starting with 8 or 9")
	flag.StringVar(&o.email, "email", "", "Email address")
	flag.StringVar(&o.password, "password", "", "Password")
	flag.StringVar(&o.otp, "otp", "", "6-digit OTP code")
	flag.StringVar(&o.oldPassword, "old-password", "", "Current password (change-password)")
	flag.StringVar(&o.newPassword, "new-password", "", "New password (change-password)")
	flag.StringVar(&o.confirm, "confirm-password", "", "New password again (change-password)")
	flag.StringVar(&o.routeID, "route", "", "Route id (purchase)")
	flag.StringVar(&o.fareType, "fare-type", "ADULT", "Fare type: ADULT|STUDENT|SENIOR")
	flag.IntVar(&o.quantity, "qty", 1, "Ticket quantity")
	flag.StringVar(&o.ticketID, "ticket", "", "Ticket id (refund)")
	flag.StringVar(&o.mode, "mode", "train", "Transport mode: train|bus")
	flag.Float64Var(&o.amount, "amount", 0, "Amount (payment-intent)")
	flag.StringVar(&o.currency, "currency", "sgd", "Currency (payment-intent)")
	flag.StringVar(&o.to, "to", "", "Recipient (message)")
	flag.StringVar(&o.subject, "subject", "", "Subject (message)")
	flag.StringVar(&o.body, "body", "", "Message or feedback text")
	flag.IntVar(&o.rating, "rating", 0, "Feedback rating 1-5")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
	if *envFlag != "" || *serverFlag != "" {
		env := cfg.Environment
		if *envFlag != "" {
			env = *envFlag
		}
		cfg.BaseURL, err = config.ResolveBaseURL(env, *serverFlag)
		if err != nil {
			fmt.Println("Error:", err)
			os.Exit(1)
		}
	}

	a, err := newApp(cfg)
	if err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
	defer a.log.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := a.run(ctx, *cmd, o); err != nil {
		fmt.Println("Error:", err)
		stop()
		a.log.Close()
		os.Exit(1)
	}
}

// app bundles what every command needs.
type app struct {
	cfg       config.Config
	log       *logging.Logger
	store     session.Store
	client    *apiclient.Client
	refresher *session.Refresher
	in        *bufio.Reader
}

func newApp(cfg config.Config) (*app, error) {
	log := logging.Stderr()
	if cfg.LogFile != "" {
		l, err := logging.NewLogger(cfg.LogFile)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		log = l
	}

	store, err := openStore(cfg)
	if err != nil {
		return nil, err
	}

	opts := []apiclient.Option{
		apiclient.WithLogger(log),
		apiclient.WithTokenSource(session.Tokens{Store: store}),
	}
	if cfg.CADir != "" {
		tlsCfg, err := certs.NewCertManager(cfg.CADir).ClientTLS()
		if err != nil {
			return nil, fmt.Errorf("load CA certificates: %w", err)
		}
		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.TLSClientConfig = tlsCfg
		opts = append(opts, apiclient.WithHTTPClient(&http.Client{Transport: transport}))
	}
	opts = append(opts, apiclient.WithTimeout(cfg.HTTPTimeout))
	if id, err := device.ID(store); err == nil {
		opts = append(opts, apiclient.WithDeviceID(id))
	} else {
		log.Warnf("device id: %v", err)
	}

	client, err := apiclient.New(cfg.BaseURL, opts...)
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:       cfg,
		log:       log,
		store:     store,
		client:    client,
		refresher: &session.Refresher{Client: client, Store: store},
		in:        bufio.NewReader(os.Stdin),
	}, nil
}

// openStore encrypts the session file when a master key is configured.
func openStore(cfg config.Config) (session.Store, error) {
	master, err := crypto.ReadMasterKey(cfg.MasterKeyHex, cfg.MasterKeyFile)
	if errors.Is(err, crypto.ErrNoMasterKey) {
		return session.NewFileStore(cfg.SessionFile), nil
	}
	if err != nil {
		return nil, err
	}
	return session.NewEncryptedFileStore(cfg.SessionFile, master)
}
