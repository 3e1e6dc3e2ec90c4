package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/akinalp/gunce/models"
	"github.com/akinalp/gunce/pkg"
)

type authDeps struct {
	users    *fakeUserRepo
	sessions *fakeSessionRepo
	resets   *fakeResetRepo
	sender   *fakeSender
	svc      AuthService
}

func newAuthDeps(t *testing.T) *authDeps {
	t.Helper()

	d := &authDeps{
		users:    newFakeUserRepo(),
		sessions: newFakeSessionRepo(),
		resets:   newFakeResetRepo(),
		sender:   newFakeSender(),
	}
	d.svc = NewAuthService(d.users, d.sessions, d.resets, d.sender, "test-secret", 15, 7)
	return d
}

func registerUser(t *testing.T, svc AuthService, username, password string) *AuthTokens {
	t.Helper()

	tokens, err := svc.Register(context.Background(), &models.CreateUserRequest{
		Username: username,
		Email:    username + "@example.com",
		Password: password,
	})
	if err != nil {
		t.Fatalf("register %s: %v", username, err)
	}
	return tokens
}

// İlk kayıt admin olur — kurulum sonrası seed adımı yoktur.
func TestRegisterFirstUserIsAdmin(t *testing.T) {
	d := newAuthDeps(t)

	first := registerUser(t, d.svc, "alice", "password-1")
	if first.User.Role != models.RoleAdmin {
		t.Fatalf("first user role = %s, want admin", first.User.Role)
	}
	if !first.User.IsActive {
		t.Fatal("first user should be active")
	}
	if first.User.PasswordHash != "" {
		t.Fatal("password hash leaked in auth response")
	}
	if first.AccessToken == "" || first.RefreshToken == "" {
		t.Fatalf("missing tokens: %+v", first)
	}

	second := registerUser(t, d.svc, "bob", "password-2")
	if second.User.Role != models.RoleUser {
		t.Fatalf("second user role = %s, want user", second.User.Role)
	}
}

func TestRegisterDuplicates(t *testing.T) {
	d := newAuthDeps(t)
	ctx := context.Background()
	registerUser(t, d.svc, "alice", "password-1")

	_, err := d.svc.Register(ctx, &models.CreateUserRequest{
		Username: "alice", Email: "other@example.com", Password: "password-2",
	})
	if !errors.Is(err, pkg.ErrAlreadyExists) {
		t.Fatalf("duplicate username: got %v, want ErrAlreadyExists", err)
	}

	_, err = d.svc.Register(ctx, &models.CreateUserRequest{
		Username: "alice2", Email: "alice@example.com", Password: "password-2",
	})
	if !errors.Is(err, pkg.ErrAlreadyExists) {
		t.Fatalf("duplicate email: got %v, want ErrAlreadyExists", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	d := newAuthDeps(t)

	_, err := d.svc.Register(context.Background(), &models.CreateUserRequest{
		Username: "ab", Email: "ab@example.com", Password: "password-1",
	})
	if !errors.Is(err, pkg.ErrBadRequest) {
		t.Fatalf("invalid username: got %v, want ErrBadRequest", err)
	}
}

func TestLogin(t *testing.T) {
	d := newAuthDeps(t)
	ctx := context.Background()
	registerUser(t, d.svc, "alice", "password-1")

	tokens, err := d.svc.Login(ctx, &models.LoginRequest{Username: "alice", Password: "password-1"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if tokens.User.Username != "alice" || tokens.AccessToken == "" {
		t.Fatalf("unexpected login result: %+v", tokens)
	}

	_, wrongPw := d.svc.Login(ctx, &models.LoginRequest{Username: "alice", Password: "wrong-password"})
	if !errors.Is(wrongPw, pkg.ErrUnauthorized) {
		t.Fatalf("wrong password: got %v, want ErrUnauthorized", wrongPw)
	}

	_, unknown := d.svc.Login(ctx, &models.LoginRequest{Username: "mallory", Password: "wrong-password"})
	if !errors.Is(unknown, pkg.ErrUnauthorized) {
		t.Fatalf("unknown user: got %v, want ErrUnauthorized", unknown)
	}

	// Enumeration koruması: iki hata birbirinden ayırt edilememeli
	if wrongPw.Error() != unknown.Error() {
		t.Fatalf("error messages differ: %q vs %q", wrongPw.Error(), unknown.Error())
	}
}

func TestLoginDeactivated(t *testing.T) {
	d := newAuthDeps(t)
	ctx := context.Background()
	tokens := registerUser(t, d.svc, "alice", "password-1")

	if err := d.users.SetActive(ctx, tokens.User.ID, false); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	_, err := d.svc.Login(ctx, &models.LoginRequest{Username: "alice", Password: "password-1"})
	if !errors.Is(err, pkg.ErrUnauthorized) || !strings.Contains(err.Error(), "deactivated") {
		t.Fatalf("deactivated login: got %v", err)
	}
}

func TestValidateAccessToken(t *testing.T) {
	d := newAuthDeps(t)
	tokens := registerUser(t, d.svc, "alice", "password-1")

	claims, err := d.svc.ValidateAccessToken(tokens.AccessToken)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.UserID != tokens.User.ID.Hex() {
		t.Fatalf("claims user id = %s, want %s", claims.UserID, tokens.User.ID.Hex())
	}
	if claims.Username != "alice" || claims.Role != models.RoleAdmin {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.Issuer != "gunce" {
		t.Fatalf("issuer = %q", claims.Issuer)
	}

	if _, err := d.svc.ValidateAccessToken("not-a-jwt"); !errors.Is(err, pkg.ErrUnauthorized) {
		t.Fatalf("garbage token: got %v, want ErrUnauthorized", err)
	}
}

func TestValidateAccessTokenWrongKeyAndAlg(t *testing.T) {
	d := newAuthDeps(t)
	ctx := context.Background()
	registerUser(t, d.svc, "alice", "password-1")

	// Aynı store, farklı secret — imza doğrulaması tutmamalı
	other := NewAuthService(d.users, d.sessions, d.resets, d.sender, "other-secret", 15, 7)
	foreign, err := other.Login(ctx, &models.LoginRequest{Username: "alice", Password: "password-1"})
	if err != nil {
		t.Fatalf("login with other service: %v", err)
	}
	if _, err := d.svc.ValidateAccessToken(foreign.AccessToken); !errors.Is(err, pkg.ErrUnauthorized) {
		t.Fatalf("wrong key token: got %v, want ErrUnauthorized", err)
	}

	// alg=none — imzasız token reddedilmeli
	noneToken := jwt.NewWithClaims(jwt.SigningMethodNone, &models.TokenClaims{
		UserID: "abc",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	unsigned, err := noneToken.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none token: %v", err)
	}
	if _, err := d.svc.ValidateAccessToken(unsigned); !errors.Is(err, pkg.ErrUnauthorized) {
		t.Fatalf("alg=none token: got %v, want ErrUnauthorized", err)
	}
}

func TestValidateAccessTokenExpired(t *testing.T) {
	d := newAuthDeps(t)

	// Negatif access süresi → üretilen token baştan expired
	expiredSvc := NewAuthService(d.users, d.sessions, d.resets, d.sender, "test-secret", -1, 7)
	tokens := registerUser(t, expiredSvc, "alice", "password-1")

	if _, err := expiredSvc.ValidateAccessToken(tokens.AccessToken); !errors.Is(err, pkg.ErrUnauthorized) {
		t.Fatalf("expired token: got %v, want ErrUnauthorized", err)
	}
}

// Refresh rotation: kullanılan token ölür, yerine yenisi geçer.
func TestRefreshRotation(t *testing.T) {
	d := newAuthDeps(t)
	ctx := context.Background()
	tokens := registerUser(t, d.svc, "alice", "password-1")

	refreshed, err := d.svc.RefreshToken(ctx, tokens.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if refreshed.RefreshToken == tokens.RefreshToken {
		t.Fatal("refresh token not rotated")
	}

	if _, err := d.svc.RefreshToken(ctx, tokens.RefreshToken); !errors.Is(err, pkg.ErrUnauthorized) {
		t.Fatalf("old refresh token: got %v, want ErrUnauthorized", err)
	}

	if _, err := d.svc.RefreshToken(ctx, refreshed.RefreshToken); err != nil {
		t.Fatalf("new refresh token rejected: %v", err)
	}
}

func TestRefreshExpiredSession(t *testing.T) {
	d := newAuthDeps(t)
	ctx := context.Background()

	// Negatif refresh süresi → session baştan expired
	shortSvc := NewAuthService(d.users, d.sessions, d.resets, d.sender, "test-secret", 15, -1)
	tokens := registerUser(t, shortSvc, "alice", "password-1")

	_, err := shortSvc.RefreshToken(ctx, tokens.RefreshToken)
	if !errors.Is(err, pkg.ErrUnauthorized) || !strings.Contains(err.Error(), "expired") {
		t.Fatalf("expired session: got %v", err)
	}

	// Expired session silinmiş olmalı — ikinci deneme "invalid" der
	_, err = shortSvc.RefreshToken(ctx, tokens.RefreshToken)
	if !errors.Is(err, pkg.ErrUnauthorized) || !strings.Contains(err.Error(), "invalid refresh token") {
		t.Fatalf("second refresh after expiry: got %v", err)
	}
}

func TestRefreshDeactivated(t *testing.T) {
	d := newAuthDeps(t)
	ctx := context.Background()
	tokens := registerUser(t, d.svc, "alice", "password-1")

	if err := d.users.SetActive(ctx, tokens.User.ID, false); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	if _, err := d.svc.RefreshToken(ctx, tokens.RefreshToken); !errors.Is(err, pkg.ErrUnauthorized) {
		t.Fatalf("deactivated refresh: got %v, want ErrUnauthorized", err)
	}
}

func TestLogout(t *testing.T) {
	d := newAuthDeps(t)
	ctx := context.Background()
	tokens := registerUser(t, d.svc, "alice", "password-1")

	if err := d.svc.Logout(ctx, tokens.RefreshToken); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := d.svc.RefreshToken(ctx, tokens.RefreshToken); !errors.Is(err, pkg.ErrUnauthorized) {
		t.Fatalf("refresh after logout: got %v, want ErrUnauthorized", err)
	}

	// Bilinmeyen token sessizce kabul edilir
	if err := d.svc.Logout(ctx, "unknown-token"); err != nil {
		t.Fatalf("logout unknown token: %v", err)
	}
}

func TestChangePassword(t *testing.T) {
	d := newAuthDeps(t)
	ctx := context.Background()
	tokens := registerUser(t, d.svc, "alice", "password-1")
	id := tokens.User.ID

	if err := d.svc.ChangePassword(ctx, id, "wrong-password", "password-2"); !errors.Is(err, pkg.ErrUnauthorized) {
		t.Fatalf("wrong current password: got %v, want ErrUnauthorized", err)
	}
	if err := d.svc.ChangePassword(ctx, id, "password-1", "password-1"); !errors.Is(err, pkg.ErrBadRequest) {
		t.Fatalf("same password: got %v, want ErrBadRequest", err)
	}

	if err := d.svc.ChangePassword(ctx, id, "password-1", "password-2"); err != nil {
		t.Fatalf("change password: %v", err)
	}

	// Tüm oturumlar kapandı — eldeki refresh token işe yaramaz
	if n := d.sessions.countForUser(id); n != 0 {
		t.Fatalf("sessions after change = %d, want 0", n)
	}
	if _, err := d.svc.RefreshToken(ctx, tokens.RefreshToken); !errors.Is(err, pkg.ErrUnauthorized) {
		t.Fatalf("refresh after change: got %v, want ErrUnauthorized", err)
	}

	if _, err := d.svc.Login(ctx, &models.LoginRequest{Username: "alice", Password: "password-1"}); !errors.Is(err, pkg.ErrUnauthorized) {
		t.Fatalf("old password still accepted: %v", err)
	}
	if _, err := d.svc.Login(ctx, &models.LoginRequest{Username: "alice", Password: "password-2"}); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
}

// Bilinmeyen email sessizce başarı döner — response'tan hangi adreslerin
// kayıtlı olduğu anlaşılamaz.
func TestForgotPasswordUnknownEmail(t *testing.T) {
	d := newAuthDeps(t)

	cooldown, err := d.svc.ForgotPassword(context.Background(), "ghost@example.com")
	if err != nil || cooldown != 0 {
		t.Fatalf("unknown email: got (%d, %v), want (0, nil)", cooldown, err)
	}
	if len(d.sender.sent) != 0 {
		t.Fatalf("mail sent for unknown email: %+v", d.sender.sent)
	}
	if len(d.resets.tokens) != 0 {
		t.Fatal("reset token created for unknown email")
	}
}

func TestForgotPasswordFlow(t *testing.T) {
	d := newAuthDeps(t)
	ctx := context.Background()
	registerUser(t, d.svc, "alice", "password-1")

	cooldown, err := d.svc.ForgotPassword(ctx, "alice@example.com")
	if err != nil || cooldown != 0 {
		t.Fatalf("forgot password: got (%d, %v), want (0, nil)", cooldown, err)
	}
	if len(d.sender.sent) != 1 || d.sender.sent[0].to != "alice@example.com" {
		t.Fatalf("unexpected mails: %+v", d.sender.sent)
	}
	if len(d.sender.sent[0].token) != 64 {
		t.Fatalf("token length = %d, want 64 hex chars", len(d.sender.sent[0].token))
	}

	// DB'de plaintext değil hash saklanır
	if d.resets.tokens[0].TokenHash == d.sender.sent[0].token {
		t.Fatal("plaintext token stored in repository")
	}

	// Cooldown: hemen arkasından ikinci istek mail GÖNDERMEZ
	cd2, err := d.svc.ForgotPassword(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("second forgot password: %v", err)
	}
	if cd2 <= 0 || cd2 > 91 {
		t.Fatalf("cooldown = %d, want 1..91", cd2)
	}
	if len(d.sender.sent) != 1 {
		t.Fatalf("cooldown did not block second mail: %d mails", len(d.sender.sent))
	}

	// Cooldown geçmiş gibi davran — kayıt geriye çekilir
	d.resets.tokens[0].CreatedAt = time.Now().UTC().Add(-2 * time.Minute)

	cd3, err := d.svc.ForgotPassword(ctx, "alice@example.com")
	if err != nil || cd3 != 0 {
		t.Fatalf("third forgot password: got (%d, %v), want (0, nil)", cd3, err)
	}
	if len(d.sender.sent) != 2 {
		t.Fatalf("mails = %d, want 2", len(d.sender.sent))
	}
	// Eski token temizlendi — aynı anda tek geçerli token
	if len(d.resets.tokens) != 1 {
		t.Fatalf("tokens in store = %d, want 1", len(d.resets.tokens))
	}
}

func TestForgotPasswordDeactivated(t *testing.T) {
	d := newAuthDeps(t)
	ctx := context.Background()
	tokens := registerUser(t, d.svc, "alice", "password-1")

	if err := d.users.SetActive(ctx, tokens.User.ID, false); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	cooldown, err := d.svc.ForgotPassword(ctx, "alice@example.com")
	if err != nil || cooldown != 0 {
		t.Fatalf("deactivated forgot: got (%d, %v), want (0, nil)", cooldown, err)
	}
	if len(d.sender.sent) != 0 {
		t.Fatal("mail sent to deactivated account")
	}
}

// Mail gidemezse token geride bırakılmaz — kullanıcı cooldown'a
// takılmadan tekrar deneyebilmeli.
func TestForgotPasswordSendFailure(t *testing.T) {
	d := newAuthDeps(t)
	registerUser(t, d.svc, "alice", "password-1")
	d.sender.fail = true

	if _, err := d.svc.ForgotPassword(context.Background(), "alice@example.com"); err == nil {
		t.Fatal("expected error when mail delivery fails")
	}
	if len(d.resets.tokens) != 0 {
		t.Fatalf("orphan token left after send failure: %+v", d.resets.tokens)
	}
}

func TestResetPassword(t *testing.T) {
	d := newAuthDeps(t)
	ctx := context.Background()
	tokens := registerUser(t, d.svc, "alice", "password-1")

	if _, err := d.svc.ForgotPassword(ctx, "alice@example.com"); err != nil {
		t.Fatalf("forgot password: %v", err)
	}
	plain := d.sender.sent[0].token

	if err := d.svc.ResetPassword(ctx, plain, "password-2"); err != nil {
		t.Fatalf("reset password: %v", err)
	}

	// Tüm oturumlar kapandı
	if n := d.sessions.countForUser(tokens.User.ID); n != 0 {
		t.Fatalf("sessions after reset = %d, want 0", n)
	}

	if _, err := d.svc.Login(ctx, &models.LoginRequest{Username: "alice", Password: "password-2"}); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
	if _, err := d.svc.Login(ctx, &models.LoginRequest{Username: "alice", Password: "password-1"}); !errors.Is(err, pkg.ErrUnauthorized) {
		t.Fatalf("old password still accepted: %v", err)
	}

	// Token tek kullanımlık
	if err := d.svc.ResetPassword(ctx, plain, "password-3"); !errors.Is(err, pkg.ErrUnauthorized) {
		t.Fatalf("token reuse: got %v, want ErrUnauthorized", err)
	}
}

func TestResetPasswordBadToken(t *testing.T) {
	d := newAuthDeps(t)

	err := d.svc.ResetPassword(context.Background(), "deadbeef", "password-2")
	if !errors.Is(err, pkg.ErrUnauthorized) {
		t.Fatalf("bad token: got %v, want ErrUnauthorized", err)
	}
}

func TestResetPasswordExpiredToken(t *testing.T) {
	d := newAuthDeps(t)
	ctx := context.Background()
	registerUser(t, d.svc, "alice", "password-1")

	if _, err := d.svc.ForgotPassword(ctx, "alice@example.com"); err != nil {
		t.Fatalf("forgot password: %v", err)
	}
	plain := d.sender.sent[0].token
	d.resets.tokens[0].ExpiresAt = time.Now().UTC().Add(-time.Minute)

	if err := d.svc.ResetPassword(ctx, plain, "password-2"); !errors.Is(err, pkg.ErrUnauthorized) {
		t.Fatalf("expired token: got %v, want ErrUnauthorized", err)
	}
	// Süresi dolan kayıt temizlendi
	if len(d.resets.tokens) != 0 {
		t.Fatalf("expired token not deleted: %+v", d.resets.tokens)
	}
}
