package user

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/darasoft/shule/core"
)

// Role determines which dashboard a User lands on and which
// authorization branch applies to their requests.
type Role string

const (
	RoleStudent   Role = "student"
	RoleTeacher   Role = "teacher"
	RoleParent    Role = "parent"
	RolePrincipal Role = "principal"
)

var AllRoles = []Role{RoleStudent, RoleTeacher, RoleParent, RolePrincipal}

func (r Role) IsValid() bool {
	for _, role := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}

type User struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"` // unique login key
	Role         Role   `json:"role"`
	AvatarURL    string `json:"avatarUrl,omitempty"`
	PasswordHash []byte `json:"-"`
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

func (u *User) IsStudent() bool   { return u.Role == RoleStudent }
func (u *User) IsTeacher() bool   { return u.Role == RoleTeacher }
func (u *User) IsParent() bool    { return u.Role == RoleParent }
func (u *User) IsPrincipal() bool { return u.Role == RolePrincipal }

// NewUser contains information needed to create a new User.
type NewUser struct {
	Name      string `json:"name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Role      Role   `json:"role" validate:"required,userrole"`
	AvatarURL string `json:"avatarUrl"`
	Password  string `json:"password" validate:"required"`
}

func (nu *NewUser) Validate(validate *validator.Validate, svc ServiceInterface) error {
	nu.Name = core.CleanString(nu.Name)
	nu.Email = core.CleanString(nu.Email, true /* lower */)

	return validate.Struct(nu)
}

const (
	roleTag  = "userrole"
	roleText = "must be one of: student, teacher, parent, principal"
)

// RegisterValidators registers the user package's custom validation tags.
func RegisterValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(roleTag, func(fl validator.FieldLevel) bool {
		return Role(fl.Field().String()).IsValid()
	})
	core.RegisterCustomTranslation(validate, translator, roleTag, roleText)
}
