// cmd/loans/seed.go
package main

import (
	"time"

	"github.com/spf13/cobra"

	"libraryloans/internal/loan"
	"libraryloans/internal/store"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert the demo loan when the store holds none for its account",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, log, err := bootstrap()
		if err != nil {
			return err
		}
		defer log.Sync()

		ctx := cmd.Context()
		s, err := store.Open(ctx, cfg.Store)
		if err != nil {
			return err
		}
		defer s.Close(ctx)

		if err := s.EnsureSchema(ctx); err != nil {
			return err
		}

		demo := loan.DemoLoan(time.Now())
		existing, err := s.FindAllByAccountID(ctx, demo.Account.AccountID)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			log.Info("store already seeded", "account_id", demo.Account.AccountID, "loans", len(existing))
			cmd.Printf("already seeded: %d loan(s)\n", len(existing))
			return nil
		}

		saved, err := loan.Seed(ctx, s, time.Now())
		if err != nil {
			return err
		}
		log.Info("seeded demo loan", "loan_id", saved.LoanIdentifier.LoanID)
		cmd.Printf("seeded loan %s\n", saved.LoanIdentifier.LoanID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
