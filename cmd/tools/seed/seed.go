package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"loan-broker/internal/common/auth"
	"loan-broker/internal/common/database"
	"loan-broker/internal/common/logger"
	"loan-broker/internal/models"
	"loan-broker/internal/store"
)

// DefaultPassword is the password of every seeded account.
const DefaultPassword = "jarnbjorn@8901"

const sampleImagePublicID = "h2bkwgii1e28hltu7f99"

var employmentTypes = []string{"SSB", "Entrepreneur", "HeadHunters", "Inscor Worker"}

// Result reports what a seed run created.
type Result struct {
	Skipped       bool
	AdminID       int64
	LenderID      int64
	ApplicantID   int64
	ApplicationID int64
}

type seeder struct {
	db     *sql.DB
	hasher auth.PasswordHasher
	logger logger.Logger
}

// run inserts the demo accounts and one routed application. It does nothing when the
// admin account already exists.
func (s *seeder) run(ctx context.Context) (*Result, error) {
	_, err := store.GetUserByEmail(ctx, s.db, "admin@example.com")
	if err == nil {
		s.logger.Info("Database already seeded", nil)
		return &Result{Skipped: true}, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	hashed, err := s.hasher.Hash(DefaultPassword)
	if err != nil {
		return nil, err
	}

	res := &Result{}
	err = database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		admin := &models.User{EmailAddress: "admin@example.com", FullName: "Admin Doe", HashedPassword: hashed, Kind: models.KindAdmin}
		lenderUser := &models.User{EmailAddress: "lender@example.com", FullName: "Lender Doe", HashedPassword: hashed, Kind: models.KindLender}
		applicant := &models.User{EmailAddress: "you@example.com", FullName: "John Doe", HashedPassword: hashed, Kind: models.KindApplicant}
		for _, u := range []*models.User{admin, lenderUser, applicant} {
			if err := store.CreateUser(ctx, tx, u); err != nil {
				return fmt.Errorf("seed %s: %w", u.EmailAddress, err)
			}
		}

		lender := &models.Lender{
			UserID:          lenderUser.ID,
			LogoPublicID:    sampleImagePublicID,
			LogoWidth:       200,
			LogoHeight:      200,
			MinTenure:       1,
			MaxTenure:       5,
			MinAmount:       decimal.NewFromInt(2000),
			MaxAmount:       decimal.NewFromInt(10000),
			MonthlyInterest: decimal.RequireFromString("5.75"),
			AdminFee:        decimal.RequireFromString("2.5"),
			ApplicationFee:  decimal.RequireFromString("1.25"),
		}
		if err := store.CreateLender(ctx, tx, lender); err != nil {
			return err
		}

		var typeIDs []int64
		for _, name := range employmentTypes {
			t, err := store.CreateEmploymentType(ctx, tx, name)
			if err != nil {
				return fmt.Errorf("seed employment type %q: %w", name, err)
			}
			typeIDs = append(typeIDs, t.ID)
		}
		if err := store.ReplacePreferences(ctx, tx, lender.ID, typeIDs[:1]); err != nil {
			return err
		}

		app := sampleApplication(applicant.ID)
		if err := store.CreateApplication(ctx, tx, app); err != nil {
			return err
		}
		if err := store.SavePriorLoan(ctx, tx, app.ID, &models.PriorLoan{
			Lender:           "Club Plus",
			ExpiryDate:       time.Date(2023, 5, 5, 0, 0, 0, 0, time.UTC),
			Amount:           decimal.NewFromInt(4000),
			MonthlyRepayment: decimal.NewFromInt(250),
			Balance:          decimal.NewFromInt(750),
		}); err != nil {
			return err
		}
		if err := store.CreateKycDocs(ctx, tx, app.ID, []models.KycDoc{
			{Label: "National-ID/Passport", PublicID: sampleImagePublicID},
			{Label: "Proof of Residence", PublicID: sampleImagePublicID},
			{Label: "Pay Slip", PublicID: sampleImagePublicID},
		}); err != nil {
			return err
		}

		channelID, err := store.CreateChannel(ctx, tx, app.ID, lender.ID)
		if err != nil {
			return err
		}
		if err := store.CreateDecision(ctx, tx, &models.Decision{
			ChannelID: channelID,
			Decision:  models.StateApproved,
			Comment:   "Comment example...",
		}); err != nil {
			return err
		}

		res.AdminID = admin.ID
		res.LenderID = lender.ID
		res.ApplicantID = applicant.ID
		res.ApplicationID = app.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Database has been seeded", map[string]interface{}{
		"adminId":       res.AdminID,
		"lenderId":      res.LenderID,
		"applicantId":   res.ApplicantID,
		"applicationId": res.ApplicationID,
	})
	return res, nil
}

func sampleApplication(applicantID int64) *models.Application {
	return &models.Application{
		ApplicantID:      applicantID,
		MoreDetail:       "Description Example...",
		Bank:             "CBZ",
		BankBranch:       "Nelson Mandela, Harare",
		AccNumber:        "1234567890",
		AccName:          "Peter Moyo",
		LoanPurpose:      "Farming Capital",
		AmtRequired:      decimal.NewFromInt(12500),
		RepaymentPeriod:  3,
		Title:            "Mr.",
		FullName:         "Peter Moyo",
		DOB:              time.Date(1995, 5, 13, 0, 0, 0, 0, time.UTC),
		NationalID:       "70-279423-B-30",
		PhoneNumber:      "+263739083125",
		ResAddress:       "2131 Place, Harare",
		NatureOfRes:      "Rented",
		FullNameOfSpouse: "Jane Doe",
		MaritalStatus:    "Married",
		Profession:       "Banker",
		Employer:         "CBZ",
		EmployedSince:    time.Date(2013, 5, 9, 0, 0, 0, 0, time.UTC),
		GrossIncome:      decimal.NewFromInt(4200),
		NetIncome:        decimal.NewFromInt(3800),
		FirstNok: models.NextOfKin{
			FullName: "Adam Person", Relationship: "Uncle", Employer: "CABS",
			ResAddress: "4342 Another Place, Harare", PhoneNumber: "+263772456321",
		},
		SecondNok: models.NextOfKin{
			FullName: "Moses Dube", Relationship: "Brother", Employer: "NMB",
			ResAddress: "2334 Place, Harare", PhoneNumber: "+263772456321",
		},
	}
}
