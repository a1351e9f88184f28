package services

import (
	"testing"

	"fintrack/internal/testutil"
)

func TestGetProfile(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewProfileService(db, nil)
		user := testutil.CreateTestUser(t, db)
		day := 10
		testutil.CreateTestProfile(t, db, user.ID, 5000, &day)

		profile, err := svc.GetProfile(user.ID)
		testutil.AssertNoError(t, err)

		if profile.MonthlySalary != 5000 {
			t.Errorf("expected salary 5000, got %f", profile.MonthlySalary)
		}
		if profile.CreditCardClosingDay == nil || *profile.CreditCardClosingDay != 10 {
			t.Errorf("expected closing day 10, got %v", profile.CreditCardClosingDay)
		}
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewProfileService(db, nil)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.GetProfile(user.ID)
		testutil.AssertAppError(t, err, "PROFILE_NOT_FOUND")
	})
}

func TestUpsertProfile(t *testing.T) {
	t.Run("creates_on_first_save", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewProfileService(db, nil)
		user := testutil.CreateTestUser(t, db)

		day := 5
		profile, err := svc.UpsertProfile(user.ID, ProfileInput{
			Name:                 "Maria",
			MonthlySalary:        7000,
			FinancialGoals:       "Guardar 20% por mês",
			CreditCardClosingDay: &day,
		})
		testutil.AssertNoError(t, err)

		if profile.ID == "" {
			t.Fatal("expected non-empty profile ID")
		}
		if profile.Name != "Maria" {
			t.Errorf("expected name Maria, got %s", profile.Name)
		}
	})

	t.Run("replaces_wholesale", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewProfileService(db, nil)
		user := testutil.CreateTestUser(t, db)

		day := 5
		first, err := svc.UpsertProfile(user.ID, ProfileInput{
			Name:                 "Maria",
			MonthlySalary:        7000,
			FinancialGoals:       "Guardar 20% por mês",
			CreditCardClosingDay: &day,
		})
		testutil.AssertNoError(t, err)

		// Save without goals or closing day: both are cleared, not kept.
		second, err := svc.UpsertProfile(user.ID, ProfileInput{
			Name:          "Maria",
			MonthlySalary: 7500,
		})
		testutil.AssertNoError(t, err)

		if second.ID != first.ID {
			t.Errorf("expected same profile row, got %s and %s", first.ID, second.ID)
		}
		if second.MonthlySalary != 7500 {
			t.Errorf("expected salary 7500, got %f", second.MonthlySalary)
		}
		if second.FinancialGoals != "" {
			t.Errorf("expected goals cleared, got %q", second.FinancialGoals)
		}
		if second.CreditCardClosingDay != nil {
			t.Errorf("expected closing day cleared, got %v", second.CreditCardClosingDay)
		}
	})

	t.Run("negative_salary", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewProfileService(db, nil)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.UpsertProfile(user.ID, ProfileInput{MonthlySalary: -1})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("closing_day_out_of_range", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewProfileService(db, nil)
		user := testutil.CreateTestUser(t, db)

		day := 32
		_, err := svc.UpsertProfile(user.ID, ProfileInput{CreditCardClosingDay: &day})
		testutil.AssertAppError(t, err, "INVALID_INPUT")

		day = 0
		_, err = svc.UpsertProfile(user.ID, ProfileInput{CreditCardClosingDay: &day})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}
