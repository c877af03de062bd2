package models

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	mysqlDriver "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/jxmls/pano-daily-checks-sub000/config"
	"github.com/jxmls/pano-daily-checks-sub000/utils"
	"golang.org/x/crypto/bcrypt"
)

func isDuplicateKeyErr(err error) bool {
	var mysqlErr *mysqlDriver.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1062
	}
	return false
}

type User struct {
	ID        int       `gorm:"primary_key" json:"id"`
	Username  string    `gorm:"size:100;not null;unique" json:"username" binding:"required"`
	Name      string    `gorm:"size:100;not null" json:"name" binding:"required"`
	Email     *string   `gorm:"size:100;unique" json:"email"`
	Phone     string    `gorm:"size:20" json:"phone"`
	Password  string    `gorm:"size:255;not null" json:"password"`
	IsActive  *bool     `gorm:"not null" json:"is_active"`
	Role      UserRole  `gorm:"type:enum('A', 'E');default:E" json:"role"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewUser struct {
	Username string   `json:"username" binding:"required"`
	Name     string   `json:"name" binding:"required"`
	Email    string   `json:"email"`
	Phone    string   `json:"phone"`
	Password string   `json:"password" binding:"required"`
	IsActive *bool    `json:"is_active" binding:"required"`
	Role     UserRole `json:"role" binding:"required,oneof=A E"`
}

/*
caches:
	User:$username
	Token:$jti -> username (session revocation)
	Tokens:$username -> set of live jti
*/

func (user User) RemoveInstanceRedis() error {
	return config.RemoveRedisKey("User:" + user.Username)
}

type LoginInfo struct {
	Token string `json:"token"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

func (result *User) PrepareGive() {
	result.Password = ""
}

func roleLabel(role UserRole) string {
	if role == UserRoleAdmin {
		return "Admin"
	}
	return "Engineer"
}

func Login(ctx context.Context, username string, password string) (*LoginInfo, error) {

	db := config.GetDB()
	var err error
	var result LoginInfo

	user := User{}

	// get User info
	exists, err := config.GetRedisObject("User:"+username, &user)
	if err != nil {
		return &result, err
	}
	if !exists {
		err = db.WithContext(ctx).Model(&User{}).Where("username = ?", username).Take(&user).Error
		if err != nil {
			return &result, errors.New("invalid username or password")
		}
	}

	// check login credentials
	err = utils.ComparePassword(user.Password, password)
	if err != nil && err == bcrypt.ErrMismatchedHashAndPassword {
		return &result, errors.New("invalid username or password")
	}

	if !utils.DereferencePtr(user.IsActive, false) {
		return &result, errors.New("user is disabled")
	}

	// generate token & response
	tokenID := uuid.NewString()
	token, err := utils.JwtGenerate(user.ID, user.Username, string(user.Role), tokenID)
	if err != nil {
		return &result, err
	}
	result.Token = token
	result.Name = user.Name
	result.Role = roleLabel(user.Role)

	// track the session in redis so logout can revoke it before expiry
	if err := config.AddRedisSet("Tokens:"+user.Username, tokenID); err != nil {
		return nil, err
	}
	if err := config.SetRedisValue("Token:"+tokenID, user.Username, utils.TokenLifespan()); err != nil {
		return &result, err
	}

	return &result, nil
}

// destroy current session
func Logout(ctx context.Context) (bool, error) {
	tokenID, ok := utils.GetTokenFromContext(ctx)
	if !ok || tokenID == "" {
		return false, errors.New("token is required")
	}
	if err := config.RemoveRedisKey("Token:" + fmt.Sprint(tokenID)); err != nil {
		return false, err
	}
	username, ok := utils.GetUsernameFromContext(ctx)
	if !ok || username == "" {
		return false, errors.New("user not found")
	}
	if err := config.RemoveRedisSetMember("Tokens:"+username, tokenID); err != nil {
		return false, err
	}
	return true, nil
}

// RevokeSessions invalidates every live session for a user. Used by admins
// when an engineer leaves or a credential is suspect.
func RevokeSessions(ctx context.Context, username string) (int, error) {
	tokenIDs, err := config.GetRedisSetMembers("Tokens:" + username)
	if err != nil {
		return 0, err
	}
	for _, tokenID := range tokenIDs {
		if err := config.RemoveRedisKey("Token:" + tokenID); err != nil {
			return 0, err
		}
	}
	if err := config.RemoveRedisKey("Tokens:" + username); err != nil {
		return 0, err
	}
	return len(tokenIDs), nil
}

func GetAllUsers(ctx context.Context) ([]*User, error) {

	db := config.GetDB()
	var results []*User

	if err := db.WithContext(ctx).Find(&results).Error; err != nil {
		return results, errors.New("no user")
	}

	for i, u := range results {
		u.Password = ""
		results[i] = u
	}

	return results, nil
}

func GetUserByUsername(ctx context.Context, username string) (*User, error) {
	db := config.GetDB()
	var user User
	if err := db.WithContext(ctx).Model(&User{}).Where("username = ?", username).Take(&user).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	return &user, nil
}

func CreateUser(ctx context.Context, input *NewUser) (*User, error) {

	db := config.GetDB()
	var count int64

	if input.Email != "" && !utils.IsValidEmail(input.Email) {
		return &User{}, errors.New("invalid email address")
	}
	if input.Phone != "" {
		if err := utils.ValidatePhoneNumber(input.Phone, utils.CountryCode); err != nil {
			return &User{}, errors.New("invalid phone number")
		}
	}

	err := db.WithContext(ctx).Model(&User{}).Where("username = ?", input.Username).Or("email = ?", input.Email).Count(&count).Error
	if err != nil {
		return &User{}, err
	}
	if count > 0 {
		return &User{}, errors.New("duplicate username or email")
	}

	hashedPassword, err := utils.HashPassword(input.Password)
	if err != nil {
		return &User{}, err
	}
	input.Email = strings.ToLower(input.Email)

	user := User{
		Username: input.Username,
		Name:     input.Name,
		Phone:    input.Phone,
		Password: string(hashedPassword),
		IsActive: input.IsActive,
		Role:     input.Role,
	}
	if input.Email != "" {
		user.Email = &input.Email
	}
	// the pre-check above races with concurrent creates; the unique index is
	// the authoritative guard
	if err := db.WithContext(ctx).Create(&user).Error; err != nil {
		if isDuplicateKeyErr(err) {
			return &User{}, errors.New("duplicate username or email")
		}
		return &User{}, err
	}

	user.PrepareGive()
	return &user, nil
}
