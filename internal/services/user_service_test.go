package services

import (
	"testing"
	"time"

	"chapterfund/internal/models"
	"chapterfund/internal/testutil"

	"golang.org/x/crypto/bcrypt"
)

func TestCreateUser(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		user, err := svc.CreateUser("alice@example.com", "password123", "Alice Smith", "IEEE Student Branch", "")
		testutil.AssertNoError(t, err)

		if user.ID == "" {
			t.Fatal("expected non-empty user ID")
		}
		if user.Email != "alice@example.com" {
			t.Errorf("expected email alice@example.com, got %s", user.Email)
		}
		if user.Role != models.UserRoleTreasurer {
			t.Errorf("expected treasurer role, got %s", user.Role)
		}
		if user.Timezone != "UTC" {
			t.Errorf("expected default timezone UTC, got %s", user.Timezone)
		}
		if !user.IsActive {
			t.Error("expected user to be active")
		}
	})

	t.Run("lowercases_email", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		user, err := svc.CreateUser("Bob@Example.COM", "password123", "Bob", "", "")
		testutil.AssertNoError(t, err)

		if user.Email != "bob@example.com" {
			t.Errorf("expected lowercased email, got %s", user.Email)
		}
	})

	t.Run("duplicate_email", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.CreateUser("dup@example.com", "password123", "", "", "")
		testutil.AssertNoError(t, err)

		_, err = svc.CreateUser("dup@example.com", "password456", "", "", "")
		testutil.AssertAppError(t, err, "DUPLICATE_EMAIL")
	})

	t.Run("duplicate_leaves_store_unchanged", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.CreateUser("once@example.com", "password123", "", "", "")
		testutil.AssertNoError(t, err)

		_, _ = svc.CreateUser("once@example.com", "password456", "", "", "")

		var count int64
		db.Model(&models.User{}).Where("email = ?", "once@example.com").Count(&count)
		if count != 1 {
			t.Errorf("expected exactly one user after duplicate signup, got %d", count)
		}
	})

	t.Run("empty_email", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.CreateUser("", "password123", "", "", "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("store_failure_surfaces", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		// A broken store must fail the duplicate check loudly, not read
		// as "no duplicate" and fall through.
		if err := db.Migrator().DropTable(&models.User{}); err != nil {
			t.Fatalf("failed to drop users table: %v", err)
		}

		_, err := svc.CreateUser("alice@example.com", "password123", "", "", "")
		testutil.AssertAppError(t, err, "INTERNAL_ERROR")
	})
}

func TestAttemptLogin(t *testing.T) {
	t.Run("valid_credentials", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)
		user := testutil.CreateTestUser(t, db)

		loggedIn, err := svc.AttemptLogin(user.Email, "password123")
		testutil.AssertNoError(t, err)

		if loggedIn.ID != user.ID {
			t.Errorf("expected user %s, got %s", user.ID, loggedIn.ID)
		}
		if loggedIn.LastLoginAt == nil {
			t.Error("expected last_login_at to be set")
		}
	})

	t.Run("wrong_password", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.AttemptLogin(user.Email, "not-the-password")
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
	})

	t.Run("unknown_email", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.AttemptLogin("nobody@example.com", "password123")
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
	})

	t.Run("locks_after_repeated_failures", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)
		user := testutil.CreateTestUser(t, db)

		for i := 0; i < maxFailedLogins; i++ {
			_, err := svc.AttemptLogin(user.Email, "wrong")
			testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
		}

		// Even the correct password is rejected while the lock holds.
		_, err := svc.AttemptLogin(user.Email, "password123")
		testutil.AssertAppError(t, err, "ACCOUNT_LOCKED")
	})

	t.Run("expired_lock_allows_login", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)
		user := testutil.CreateTestUser(t, db)

		past := time.Now().Add(-time.Minute)
		db.Model(user).Updates(map[string]interface{}{
			"failed_login_attempts": maxFailedLogins,
			"locked_until":          past,
		})

		loggedIn, err := svc.AttemptLogin(user.Email, "password123")
		testutil.AssertNoError(t, err)
		if loggedIn.FailedLoginAttempts != 0 {
			t.Errorf("expected failure counter reset, got %d", loggedIn.FailedLoginAttempts)
		}
	})

	t.Run("success_resets_failure_counter", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)
		user := testutil.CreateTestUser(t, db)

		_, _ = svc.AttemptLogin(user.Email, "wrong")
		_, _ = svc.AttemptLogin(user.Email, "wrong")

		_, err := svc.AttemptLogin(user.Email, "password123")
		testutil.AssertNoError(t, err)

		fresh, err := svc.GetUserByID(user.ID)
		testutil.AssertNoError(t, err)
		if fresh.FailedLoginAttempts != 0 {
			t.Errorf("expected 0 failed attempts after success, got %d", fresh.FailedLoginAttempts)
		}
	})
}

func TestRefreshTokenHash(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewUserService(db)
	user := testutil.CreateTestUser(t, db)

	testutil.AssertNoError(t, svc.StoreRefreshTokenHash(user.ID, "abc123"))

	hash, err := svc.GetRefreshTokenHash(user.ID)
	testutil.AssertNoError(t, err)
	if hash != "abc123" {
		t.Errorf("expected stored hash abc123, got %s", hash)
	}

	testutil.AssertNoError(t, svc.ClearRefreshTokenHash(user.ID))

	hash, err = svc.GetRefreshTokenHash(user.ID)
	testutil.AssertNoError(t, err)
	if hash != "" {
		t.Errorf("expected cleared hash, got %s", hash)
	}
}

func TestPasswordResetFlow(t *testing.T) {
	t.Run("full_flow", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)
		user := testutil.CreateTestUser(t, db)

		testutil.AssertNoError(t, svc.RequestPasswordReset(user.Email))
		testutil.AssertNoError(t, svc.VerifyResetCode(user.Email, "123456"))
		testutil.AssertNoError(t, svc.ResetPassword(user.Email, "newpassword1"))

		fresh, err := svc.GetUserByEmail(user.Email)
		testutil.AssertNoError(t, err)
		if bcrypt.CompareHashAndPassword([]byte(fresh.Password), []byte("newpassword1")) != nil {
			t.Error("expected new password to verify")
		}

		// The reset request is consumed.
		err = svc.ResetPassword(user.Email, "another")
		testutil.AssertAppError(t, err, "RESET_NOT_REQUESTED")
	})

	t.Run("malformed_code", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)
		user := testutil.CreateTestUser(t, db)

		testutil.AssertNoError(t, svc.RequestPasswordReset(user.Email))

		testutil.AssertAppError(t, svc.VerifyResetCode(user.Email, "12345"), "INVALID_OTP")
		testutil.AssertAppError(t, svc.VerifyResetCode(user.Email, "abcdef"), "INVALID_OTP")
	})

	t.Run("verify_without_request", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		testutil.AssertAppError(t, svc.VerifyResetCode("nobody@example.com", "123456"), "RESET_NOT_REQUESTED")
	})

	t.Run("reset_without_verify", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)
		user := testutil.CreateTestUser(t, db)

		testutil.AssertNoError(t, svc.RequestPasswordReset(user.Email))
		testutil.AssertAppError(t, svc.ResetPassword(user.Email, "newpassword1"), "RESET_NOT_VERIFIED")
	})

	t.Run("expired_request", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)
		user := testutil.CreateTestUser(t, db)

		testutil.AssertNoError(t, svc.RequestPasswordReset(user.Email))
		db.Model(&models.PasswordReset{}).Where("email = ?", user.Email).
			Update("expires_at", time.Now().Add(-time.Minute))

		testutil.AssertAppError(t, svc.VerifyResetCode(user.Email, "123456"), "RESET_EXPIRED")
	})

	t.Run("request_for_unknown_email_succeeds", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		// No account enumeration: the request itself never fails.
		testutil.AssertNoError(t, svc.RequestPasswordReset("ghost@example.com"))
	})
}
