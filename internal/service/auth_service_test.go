package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/VanZep/FeedbackBook/internal/models"
)

// MockUserRepository mocks the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Save(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, username string) error {
	args := m.Called(ctx, username)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context, search string, page, pageSize int) ([]models.User, int64, error) {
	args := m.Called(ctx, search, page, pageSize)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.User), args.Get(1).(int64), args.Error(2)
}

// MockCodeSender records the last dispatched confirmation code.
type MockCodeSender struct {
	mock.Mock
	LastCode string
}

func (m *MockCodeSender) SendConfirmationCode(to, username, code string) error {
	m.LastCode = code
	args := m.Called(to, username, code)
	return args.Error(0)
}

func newTestAuthService(userRepo *MockUserRepository, sender *MockCodeSender) AuthService {
	return NewAuthService(userRepo, sender, "test-secret-test-secret-test-secret", 15*time.Minute)
}

func TestSignup_NewUser(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockSender := new(MockCodeSender)
	authService := newTestAuthService(mockRepo, mockSender)

	mockRepo.On("FindByUsername", mock.Anything, "alice").Return(nil, gorm.ErrRecordNotFound)
	mockRepo.On("FindByEmail", mock.Anything, "alice@example.com").Return(nil, gorm.ErrRecordNotFound)
	mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.User")).Return(nil)
	mockSender.On("SendConfirmationCode", "alice@example.com", "alice", mock.AnythingOfType("string")).Return(nil)

	resp, err := authService.Signup(context.Background(), "alice", "alice@example.com")

	assert.NoError(t, err)
	assert.Equal(t, "alice", resp.Username)
	assert.Equal(t, "alice@example.com", resp.Email)
	assert.NotEmpty(t, mockSender.LastCode)
	mockRepo.AssertExpectations(t)
	mockSender.AssertExpectations(t)
}

func TestSignup_RepeatedPendingPair(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockSender := new(MockCodeSender)
	authService := newTestAuthService(mockRepo, mockSender)

	existing := &models.User{ID: "u1", Username: "alice", Email: "alice@example.com", Role: models.RoleUser}
	mockRepo.On("FindByUsername", mock.Anything, "alice").Return(existing, nil)
	mockRepo.On("FindByEmail", mock.Anything, "alice@example.com").Return(existing, nil)
	mockRepo.On("Save", mock.Anything, mock.AnythingOfType("*models.User")).Return(nil)
	mockSender.On("SendConfirmationCode", "alice@example.com", "alice", mock.AnythingOfType("string")).Return(nil)

	resp, err := authService.Signup(context.Background(), "alice", "alice@example.com")

	assert.NoError(t, err)
	assert.Equal(t, "alice", resp.Username)
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	mockRepo.AssertExpectations(t)
}

func TestSignup_EmailMismatch(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockSender := new(MockCodeSender)
	authService := newTestAuthService(mockRepo, mockSender)

	existing := &models.User{ID: "u1", Username: "alice", Email: "alice@example.com"}
	mockRepo.On("FindByUsername", mock.Anything, "alice").Return(existing, nil)

	resp, err := authService.Signup(context.Background(), "alice", "other@example.com")

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrEmailMismatch)
	mockRepo.AssertExpectations(t)
}

func TestSignup_UsernameMismatch(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockSender := new(MockCodeSender)
	authService := newTestAuthService(mockRepo, mockSender)

	existing := &models.User{ID: "u1", Username: "alice", Email: "alice@example.com"}
	mockRepo.On("FindByUsername", mock.Anything, "bob").Return(nil, gorm.ErrRecordNotFound)
	mockRepo.On("FindByEmail", mock.Anything, "alice@example.com").Return(existing, nil)

	resp, err := authService.Signup(context.Background(), "bob", "alice@example.com")

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrUsernameMismatch)
	mockRepo.AssertExpectations(t)
}

func TestSignup_ReservedUsername(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockSender := new(MockCodeSender)
	authService := newTestAuthService(mockRepo, mockSender)

	resp, err := authService.Signup(context.Background(), "me", "me@example.com")

	assert.Nil(t, resp)
	assert.Error(t, err)
	mockRepo.AssertNotCalled(t, "FindByUsername", mock.Anything, mock.Anything)
}

func TestSignup_DeliveryFailureStillSucceeds(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockSender := new(MockCodeSender)
	authService := newTestAuthService(mockRepo, mockSender)

	mockRepo.On("FindByUsername", mock.Anything, "alice").Return(nil, gorm.ErrRecordNotFound)
	mockRepo.On("FindByEmail", mock.Anything, "alice@example.com").Return(nil, gorm.ErrRecordNotFound)
	mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.User")).Return(nil)
	mockSender.On("SendConfirmationCode", "alice@example.com", "alice", mock.AnythingOfType("string")).
		Return(assert.AnError)

	resp, err := authService.Signup(context.Background(), "alice", "alice@example.com")

	assert.NoError(t, err)
	assert.NotNil(t, resp)
}

func TestIssueToken_UnknownUser(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockSender := new(MockCodeSender)
	authService := newTestAuthService(mockRepo, mockSender)

	mockRepo.On("FindByUsername", mock.Anything, "ghost").Return(nil, gorm.ErrRecordNotFound)

	token, err := authService.IssueToken(context.Background(), "ghost", "whatever")

	assert.Empty(t, token)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestIssueToken_WrongCode(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockSender := new(MockCodeSender)
	authService := newTestAuthService(mockRepo, mockSender)

	hash, _ := bcrypt.GenerateFromPassword([]byte("rightcode"), bcrypt.DefaultCost)
	user := &models.User{ID: "u1", Username: "alice", Role: models.RoleUser, ConfirmationCode: string(hash)}
	mockRepo.On("FindByUsername", mock.Anything, "alice").Return(user, nil)

	token, err := authService.IssueToken(context.Background(), "alice", "wrongcode")

	assert.Empty(t, token)
	assert.ErrorIs(t, err, ErrInvalidCode)
}

func TestIssueToken_NoPendingCode(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockSender := new(MockCodeSender)
	authService := newTestAuthService(mockRepo, mockSender)

	user := &models.User{ID: "u1", Username: "alice", Role: models.RoleUser}
	mockRepo.On("FindByUsername", mock.Anything, "alice").Return(user, nil)

	token, err := authService.IssueToken(context.Background(), "alice", "anything")

	assert.Empty(t, token)
	assert.ErrorIs(t, err, ErrInvalidCode)
}

func TestIssueToken_Success(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockSender := new(MockCodeSender)
	authService := newTestAuthService(mockRepo, mockSender)

	hash, _ := bcrypt.GenerateFromPassword([]byte("s3cretcode"), bcrypt.DefaultCost)
	user := &models.User{ID: "u1", Username: "alice", Role: models.RoleModerator, ConfirmationCode: string(hash)}
	mockRepo.On("FindByUsername", mock.Anything, "alice").Return(user, nil)

	token, err := authService.IssueToken(context.Background(), "alice", "s3cretcode")

	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := authService.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, models.RoleModerator, claims.Role)
	assert.Equal(t, "u1", claims.Subject)
}

func TestValidateToken_Garbage(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockSender := new(MockCodeSender)
	authService := newTestAuthService(mockRepo, mockSender)

	claims, err := authService.ValidateToken("not-a-token")

	assert.Nil(t, claims)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
