package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/berat-eth/huglu-storefront/internal/backend"
	"github.com/berat-eth/huglu-storefront/internal/cart"
	"github.com/berat-eth/huglu-storefront/internal/card"
	"github.com/berat-eth/huglu-storefront/internal/checkout"
	"github.com/berat-eth/huglu-storefront/internal/config"
	"github.com/berat-eth/huglu-storefront/internal/domain"
	"github.com/berat-eth/huglu-storefront/internal/payment"
	"github.com/berat-eth/huglu-storefront/internal/vault"
)

// Drives a full checkout from the terminal against the configured backend.
// Useful for exercising the payment workflow without the mobile client.
func main() {
	if len(os.Args) < 5 {
		fmt.Println("Usage: go run cmd/pay-order/main.go <user_id> <card_number> <expiry MM/YY> <cvc>")
		fmt.Println("Example: go run cmd/pay-order/main.go 42 \"4111 1111 1111 1111\" 12/29 123")
		os.Exit(1)
	}

	userID := os.Args[1]
	cardNumber := os.Args[2]
	expiry := os.Args[3]
	cvc := os.Args[4]

	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	month, year, err := card.ParseExpiry(expiry)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid expiry: %v\n", err)
		os.Exit(1)
	}

	client := backend.NewClient(cfg.Backend, logger)
	cartSvc := cart.NewService(client, nil, cart.ShippingPolicy{
		FreeShippingThreshold: cfg.Checkout.FreeShippingThreshold,
		FlatFee:               cfg.Checkout.FlatShippingFee,
	}, logger)
	workflow := payment.NewWorkflow(vault.New(logger), payment.PollConfig{
		InitialDelay: cfg.Checkout.PollInitialDelay,
		Interval:     cfg.Checkout.PollInterval,
		MaxAttempts:  cfg.Checkout.PollMaxAttempts,
	}, logger)
	svc := checkout.NewService(client, cartSvc, workflow, nil, logger)

	ctx := context.Background()
	fmt.Printf("Running checkout for user %s (card %s)\n\n", userID, card.Mask(cardNumber))

	outcome, err := svc.Checkout(ctx, &checkout.Request{
		UserID: userID,
		Card: domain.PaymentCard{
			CardNumber:     cardNumber,
			CardHolderName: "Terminal Test",
			ExpireMonth:    month,
			ExpireYear:     year,
			CVC:            cvc,
		},
		Buyer: domain.Buyer{
			ID:    userID,
			Name:  "Terminal",
			Phone: "+900000000000",
		},
		DeliveryMethod: domain.DeliveryShip,
		ShippingAddress: &domain.Address{
			ContactName: "Terminal Test",
			City:        "Konya",
			Country:     "Turkey",
			Address:     "Huglu",
		},
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Checkout failed: %v\n", err)
		if outcome != nil && outcome.UserMessage != "" {
			fmt.Fprintf(os.Stderr, "User message: %s\n", outcome.UserMessage)
		}
		os.Exit(1)
	}

	if outcome.State == domain.AttemptAwaitingChallenge {
		path := fmt.Sprintf("challenge-%s.html", outcome.Challenge.ConversationID)
		if writeErr := os.WriteFile(path, []byte(outcome.Challenge.HTML), 0600); writeErr == nil {
			fmt.Printf("3DS challenge written to %s\n", path)
		}
		fmt.Print("Open the challenge in a browser, finish it, then press Enter to poll status... ")
		reader := bufio.NewReader(os.Stdin)
		_, _ = reader.ReadString('\n')

		outcome, err = svc.CompleteChallenge(ctx, outcome.Challenge.ConversationID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Confirmation failed: %v\n", err)
			os.Exit(1)
		}
	}

	fmt.Printf("Attempt state: %s\n", outcome.State)
	fmt.Printf("Order ID:      %s\n", outcome.IntentID)
	if outcome.PaymentID != "" {
		fmt.Printf("Payment ID:    %s\n", outcome.PaymentID)
	}
	if outcome.CardInfo.Last4 != "" {
		fmt.Printf("Card:          %s\n", strings.TrimSpace(outcome.CardInfo.Association+" ****"+outcome.CardInfo.Last4))
	}
}
