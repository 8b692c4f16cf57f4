package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/Nixie-Tech-LLC/iftar/internal/model"
)

// currentUserKey is where JWTMiddleware leaves the authenticated account.
const currentUserKey = "currentUser"

// ErrInvalidCredentials is the single login failure. It never says whether
// the email or the password was wrong.
var ErrInvalidCredentials = errors.New("invalid email or password")

// HashPassword returns the bcrypt hash stored in users.password.
func HashPassword(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	return string(hashed), err
}

// CheckPassword reports whether plain matches a hash from HashPassword.
func CheckPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// GetCurrentUser returns the account whose doses the request operates on.
// ok is false outside a JWT-protected group.
func GetCurrentUser(c *gin.Context) (user *model.User, ok bool) {
	v, exists := c.Get(currentUserKey)
	if !exists {
		return nil, false
	}
	user, ok = v.(*model.User)
	return user, ok && user != nil
}
