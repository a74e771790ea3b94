package accounts

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"ecofood/internal/models"
)

type fakeStore struct {
	mu       sync.Mutex
	accounts map[primitive.ObjectID]models.Account
}

func newFakeStore() *fakeStore {
	return &fakeStore{accounts: map[primitive.ObjectID]models.Account{}}
}

func (f *fakeStore) Insert(_ context.Context, a *models.Account) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.accounts {
		if existing.Email == a.Email {
			return ErrEmailTaken
		}
	}
	a.ID = primitive.NewObjectID()
	f.accounts[a.ID] = *a
	return nil
}

func (f *fakeStore) FindByID(_ context.Context, id primitive.ObjectID) (models.Account, error) {
	return f.find(func(a models.Account) bool { return a.ID == id })
}

func (f *fakeStore) FindByEmail(_ context.Context, email string) (models.Account, error) {
	return f.find(func(a models.Account) bool { return a.Email == email })
}

func (f *fakeStore) FindByVerifyToken(_ context.Context, hash string) (models.Account, error) {
	return f.find(func(a models.Account) bool { return a.VerifyTokenHash != "" && a.VerifyTokenHash == hash })
}

func (f *fakeStore) FindByResetToken(_ context.Context, hash string) (models.Account, error) {
	return f.find(func(a models.Account) bool { return a.ResetTokenHash != "" && a.ResetTokenHash == hash })
}

func (f *fakeStore) List(_ context.Context, role models.Role) ([]models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Account{}
	for _, a := range f.accounts {
		if role == "" || a.Role == role {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeStore) CountByRole(ctx context.Context, role models.Role) (int64, error) {
	list, _ := f.List(ctx, role)
	return int64(len(list)), nil
}

func (f *fakeStore) UpdateProfile(_ context.Context, id primitive.ObjectID, p models.Profile, at time.Time) (models.Account, error) {
	return f.mutate(id, func(a *models.Account) {
		a.Name, a.CompanyName, a.LegalName = p.Name, p.CompanyName, p.LegalName
		a.TaxID, a.Address, a.Commune, a.Phone = p.TaxID, p.Address, p.Commune, p.Phone
		a.UpdatedAt = at
	})
}

func (f *fakeStore) MarkVerified(_ context.Context, id primitive.ObjectID, at time.Time) error {
	_, err := f.mutate(id, func(a *models.Account) {
		a.EmailVerified = true
		a.VerifyTokenHash = ""
		a.VerifyExpiresAt = nil
		a.UpdatedAt = at
	})
	return err
}

func (f *fakeStore) SetResetToken(_ context.Context, id primitive.ObjectID, hash string, expires time.Time) error {
	_, err := f.mutate(id, func(a *models.Account) {
		a.ResetTokenHash = hash
		a.ResetExpiresAt = &expires
	})
	return err
}

func (f *fakeStore) SetPassword(_ context.Context, id primitive.ObjectID, passwordHash string, at time.Time) error {
	_, err := f.mutate(id, func(a *models.Account) {
		a.PasswordHash = passwordHash
		a.ResetTokenHash = ""
		a.ResetExpiresAt = nil
		a.UpdatedAt = at
	})
	return err
}

func (f *fakeStore) Delete(_ context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.accounts[id]; !ok {
		return ErrNotFound
	}
	delete(f.accounts, id)
	return nil
}

func (f *fakeStore) find(match func(models.Account) bool) (models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.accounts {
		if match(a) {
			return a, nil
		}
	}
	return models.Account{}, ErrNotFound
}

func (f *fakeStore) mutate(id primitive.ObjectID, apply func(*models.Account)) (models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.accounts[id]
	if !ok {
		return models.Account{}, ErrNotFound
	}
	apply(&a)
	f.accounts[id] = a
	return a, nil
}

type fakeTokens struct {
	mu     sync.Mutex
	tokens map[primitive.ObjectID]models.RefreshToken
}

func newFakeTokens() *fakeTokens {
	return &fakeTokens{tokens: map[primitive.ObjectID]models.RefreshToken{}}
}

func (f *fakeTokens) Insert(_ context.Context, t *models.RefreshToken) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t.ID = primitive.NewObjectID()
	f.tokens[t.ID] = *t
	return nil
}

func (f *fakeTokens) FindActive(_ context.Context, hash string) (models.RefreshToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.tokens {
		if t.TokenHash == hash && !t.Revoked {
			return t, nil
		}
	}
	return models.RefreshToken{}, ErrNotFound
}

func (f *fakeTokens) Revoke(_ context.Context, id primitive.ObjectID, replacedBy *primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := f.tokens[id]
	t.Revoked = true
	t.ReplacedByToken = replacedBy
	f.tokens[id] = t
	return nil
}

func (f *fakeTokens) RevokeByHash(_ context.Context, hash string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, t := range f.tokens {
		if t.TokenHash == hash && !t.Revoked {
			t.Revoked = true
			f.tokens[id] = t
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeTokens) RevokeAll(_ context.Context, accountID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, t := range f.tokens {
		if t.AccountID == accountID {
			t.Revoked = true
			f.tokens[id] = t
		}
	}
	return nil
}

func (f *fakeTokens) active(accountID primitive.ObjectID) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, t := range f.tokens {
		if t.AccountID == accountID && !t.Revoked {
			n++
		}
	}
	return n
}

// capturingNotifier keeps the last token sent per kind.
type capturingNotifier struct {
	verification string
	reset        string
}

func (n *capturingNotifier) SendVerification(_ context.Context, _ models.Account, token string) error {
	n.verification = token
	return nil
}

func (n *capturingNotifier) SendPasswordReset(_ context.Context, _ models.Account, token string) error {
	n.reset = token
	return nil
}

type fakeRemover struct {
	owners []primitive.ObjectID
	err    error
}

func (r *fakeRemover) DeleteByOwner(_ context.Context, ownerID primitive.ObjectID) (int64, error) {
	if r.err != nil {
		return 0, r.err
	}
	r.owners = append(r.owners, ownerID)
	return 3, nil
}
