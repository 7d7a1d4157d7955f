package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/centek/clinic-api/internal/model"
	"github.com/centek/clinic-api/internal/repository"
	"github.com/centek/clinic-api/pkg/apperror"
	pkgauth "github.com/centek/clinic-api/pkg/auth"
	"github.com/centek/clinic-api/pkg/security"
)

type fakeUserRepo struct {
	users  map[int64]*model.User
	nextID int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int64]*model.User), nextID: 1}
}

func (r *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	for _, u := range r.users {
		if u.Username == user.Username {
			return repository.ErrDuplicate
		}
	}
	user.ID = r.nextID
	r.nextID++
	user.DateJoined = time.Now()
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) Get(_ context.Context, id int64) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) UsernameTaken(ctx context.Context, username string) (bool, error) {
	_, err := r.GetByUsername(ctx, username)
	if err == nil {
		return true, nil
	}
	return false, nil
}

func (r *fakeUserRepo) List(_ context.Context, _ *model.DoctorFilters) ([]*model.User, error) {
	out := make([]*model.User, 0, len(r.users))
	for _, u := range r.users {
		cp := *u
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeUserRepo) UpdateProfile(_ context.Context, id int64, patch *model.UserPatch) error {
	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	if patch.FirstName != nil {
		u.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		u.LastName = *patch.LastName
	}
	if patch.Surname != nil {
		u.Surname = patch.Surname
	}
	return nil
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, id int64, hash string) error {
	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (r *fakeUserRepo) UpdatePhoto(_ context.Context, id int64, photo string) error {
	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.Photo = photo
	return nil
}

func (r *fakeUserRepo) UpdateLastLogin(_ context.Context, id int64) error {
	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	now := time.Now()
	u.LastLogin = &now
	return nil
}

type fakeSpecialityRepo struct {
	byName map[string]*model.Speciality
	nextID int64
}

func newFakeSpecialityRepo() *fakeSpecialityRepo {
	return &fakeSpecialityRepo{byName: make(map[string]*model.Speciality), nextID: 1}
}

func (r *fakeSpecialityRepo) FindOrCreate(_ context.Context, name string) (*model.Speciality, error) {
	if s, ok := r.byName[name]; ok {
		return s, nil
	}
	s := &model.Speciality{ID: r.nextID, Name: name}
	r.nextID++
	r.byName[name] = s
	return s, nil
}

func (r *fakeSpecialityRepo) List(_ context.Context) ([]*model.Speciality, error) {
	out := make([]*model.Speciality, 0, len(r.byName))
	for _, s := range r.byName {
		out = append(out, s)
	}
	return out, nil
}

type fakeTx struct{}

func (fakeTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeRevoker struct {
	revoked map[string]bool
}

func newFakeRevoker() *fakeRevoker {
	return &fakeRevoker{revoked: make(map[string]bool)}
}

func (r *fakeRevoker) Revoke(_ context.Context, tokenID string, _ time.Duration) error {
	r.revoked[tokenID] = true
	return nil
}

func (r *fakeRevoker) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	return r.revoked[tokenID], nil
}

func newTestService(t *testing.T) (*Service, *fakeUserRepo, *fakeSpecialityRepo, *fakeRevoker) {
	t.Helper()
	users := newFakeUserRepo()
	specialities := newFakeSpecialityRepo()
	revoker := newFakeRevoker()
	svc := NewService(
		users,
		specialities,
		fakeTx{},
		pkgauth.NewJWTService("test-secret", time.Hour),
		security.NewBcryptHasher(4),
		revoker,
		"avatar/default.svg",
	)
	return svc, users, specialities, revoker
}

func registerReq(username string) *model.RegisterRequest {
	return &model.RegisterRequest{
		Username:   username,
		Password:   "secret-password",
		Email:      username + "@example.com",
		FirstName:  "Gregory",
		LastName:   "House",
		Speciality: model.SpecialityRef{Name: "Diagnostics"},
	}
}

func TestRegister(t *testing.T) {
	svc, _, specialities, _ := newTestService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, registerReq("gregory.house"))
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Equal(t, "Diagnostics", user.Speciality)
	assert.Equal(t, "avatar/default.svg", user.Photo)
	assert.Contains(t, specialities.byName, "Diagnostics")
}

func TestRegisterDuplicateUsernameAnswers403(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerReq("gregory.house"))
	require.NoError(t, err)

	_, err = svc.Register(ctx, registerReq("gregory.house"))
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeConflict))
	assert.Equal(t, 403, apperror.FromError(err).StatusCode())
}

func TestRegisterSharesSpecialityRows(t *testing.T) {
	svc, _, specialities, _ := newTestService(t)
	ctx := context.Background()

	u1, err := svc.Register(ctx, registerReq("doctor.one"))
	require.NoError(t, err)
	u2, err := svc.Register(ctx, registerReq("doctor.two"))
	require.NoError(t, err)

	assert.Equal(t, u1.SpecialityID, u2.SpecialityID)
	assert.Len(t, specialities.byName, 1)
}

func TestRegisterRejectsBadUsernames(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	for _, username := range []string{".house", "house.", "gregory..house", "greg house", "грегори"} {
		_, err := svc.Register(ctx, registerReq(username))
		assert.True(t, apperror.IsCode(err, apperror.CodeValidation), "username %q should be rejected", username)
	}
}

func TestLogin(t *testing.T) {
	svc, users, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerReq("gregory.house"))
	require.NoError(t, err)

	resp, err := svc.Login(ctx, &model.LoginRequest{Username: "gregory.house", Password: "secret-password"})
	require.NoError(t, err)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "gregory.house", resp.User.Username)

	stored, err := users.GetByUsername(ctx, "gregory.house")
	require.NoError(t, err)
	assert.NotNil(t, stored.LastLogin)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerReq("gregory.house"))
	require.NoError(t, err)

	_, err = svc.Login(ctx, &model.LoginRequest{Username: "gregory.house", Password: "wrong-password"})
	assert.True(t, apperror.IsCode(err, apperror.CodeUnauthorized))
	assert.Equal(t, 400, apperror.FromError(err).StatusCode())

	_, err = svc.Login(ctx, &model.LoginRequest{Username: "nobody", Password: "whatever-pass"})
	assert.True(t, apperror.IsCode(err, apperror.CodeUnauthorized))
	assert.Equal(t, 400, apperror.FromError(err).StatusCode())
}

func TestValidateAccess(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, registerReq("gregory.house"))
	require.NoError(t, err)
	resp, err := svc.Login(ctx, &model.LoginRequest{Username: "gregory.house", Password: "secret-password"})
	require.NoError(t, err)

	got, err := svc.ValidateAccess(ctx, resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = svc.ValidateAccess(ctx, "garbage")
	assert.True(t, apperror.IsCode(err, apperror.CodeUnauthorized))
}

func TestLogoutRevokesToken(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerReq("gregory.house"))
	require.NoError(t, err)
	resp, err := svc.Login(ctx, &model.LoginRequest{Username: "gregory.house", Password: "secret-password"})
	require.NoError(t, err)

	jwtSvc := pkgauth.NewJWTService("test-secret", time.Hour)
	claims, err := jwtSvc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, claims))

	_, err = svc.ValidateAccess(ctx, resp.AccessToken)
	assert.True(t, apperror.IsCode(err, apperror.CodeUnauthorized))
}

func TestChangePassword(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, registerReq("gregory.house"))
	require.NoError(t, err)

	err = svc.ChangePassword(ctx, user.ID, &model.ChangePasswordRequest{
		OldPassword: "wrong-password",
		NewPassword: "brand-new-pass",
	})
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))

	err = svc.ChangePassword(ctx, user.ID, &model.ChangePasswordRequest{
		OldPassword: "secret-password",
		NewPassword: "brand-new-pass",
	})
	require.NoError(t, err)

	_, err = svc.Login(ctx, &model.LoginRequest{Username: "gregory.house", Password: "brand-new-pass"})
	assert.NoError(t, err)
}

func TestUpdateProfileEmptyPatchIsNoop(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, registerReq("gregory.house"))
	require.NoError(t, err)

	got, err := svc.UpdateProfile(ctx, user.ID, &model.UserPatch{})
	require.NoError(t, err)
	assert.Equal(t, user.FirstName, got.FirstName)
	assert.Equal(t, user.LastName, got.LastName)
}

func TestUpdateProfilePartial(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, registerReq("gregory.house"))
	require.NoError(t, err)

	newFirst := "James"
	got, err := svc.UpdateProfile(ctx, user.ID, &model.UserPatch{FirstName: &newFirst})
	require.NoError(t, err)
	assert.Equal(t, "James", got.FirstName)
	assert.Equal(t, user.LastName, got.LastName)
}

func TestSetAvatarEmptyResetsToDefault(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, registerReq("gregory.house"))
	require.NoError(t, err)

	got, err := svc.SetAvatar(ctx, user.ID, "avatar/custom.png")
	require.NoError(t, err)
	assert.Equal(t, "avatar/custom.png", got.Photo)

	got, err = svc.SetAvatar(ctx, user.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "avatar/default.svg", got.Photo)
}
