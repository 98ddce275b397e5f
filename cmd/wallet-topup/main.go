package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/berat-eth/huglu-storefront/internal/backend"
	"github.com/berat-eth/huglu-storefront/internal/card"
	"github.com/berat-eth/huglu-storefront/internal/config"
	"github.com/berat-eth/huglu-storefront/internal/domain"
	"github.com/berat-eth/huglu-storefront/internal/payment"
	"github.com/berat-eth/huglu-storefront/internal/vault"
	"github.com/berat-eth/huglu-storefront/internal/wallet"
)

// Tops up a wallet from the terminal and prints the resulting balance.
func main() {
	if len(os.Args) < 6 {
		fmt.Println("Usage: go run cmd/wallet-topup/main.go <user_id> <amount> <card_number> <expiry MM/YY> <cvc>")
		os.Exit(1)
	}

	userID := os.Args[1]
	amount, err := strconv.ParseFloat(os.Args[2], 64)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid amount: %v\n", err)
		os.Exit(1)
	}
	cardNumber := os.Args[3]
	expiry := os.Args[4]
	cvc := os.Args[5]

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	month, year, err := card.ParseExpiry(expiry)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid expiry: %v\n", err)
		os.Exit(1)
	}

	client := backend.NewClient(cfg.Backend, logger)
	workflow := payment.NewWorkflow(vault.New(logger), payment.PollConfig{
		InitialDelay: cfg.Checkout.PollInitialDelay,
		Interval:     cfg.Checkout.PollInterval,
		MaxAttempts:  cfg.Checkout.PollMaxAttempts,
	}, logger)
	svc := wallet.NewService(client, workflow, nil, wallet.Limits{
		Min: cfg.Wallet.MinRecharge,
		Max: cfg.Wallet.MaxRecharge,
	}, logger)

	ctx := context.Background()
	fmt.Printf("Recharging wallet of user %s by %.2f\n\n", userID, amount)

	outcome, err := svc.Recharge(ctx, &wallet.RechargeRequest{
		UserID: userID,
		Amount: amount,
		Card: domain.PaymentCard{
			CardNumber:     cardNumber,
			CardHolderName: "Terminal Test",
			ExpireMonth:    month,
			ExpireYear:     year,
			CVC:            cvc,
		},
		Buyer: domain.Buyer{ID: userID, Name: "Terminal", Phone: "+900000000000"},
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Recharge failed: %v\n", err)
		os.Exit(1)
	}

	if outcome.State == domain.AttemptAwaitingChallenge {
		fmt.Println("Recharge requires a 3DS challenge; complete it in the storefront and re-check the balance.")
		os.Exit(0)
	}

	fmt.Printf("Attempt state: %s\n", outcome.State)
	if balance, err := svc.Balance(ctx, userID); err == nil {
		fmt.Printf("New balance:   %.2f %s\n", balance.Balance, balance.Currency)
	}
}
