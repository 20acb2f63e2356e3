package user

import (
	"errors"
	"fmt"
	"net/mail"

	"github.com/darasoft/shule/core"
)

var (
	// errors
	ErrNotFound    = errors.New("user not found")
	ErrEmailExists = errors.New("User with this email already exists")
)

type (
	Repository interface {
		CheckEmailUniqueness(email string) error
		CreateUser(usr User) (User, error)
		QueryAllUsers() ([]User, error)
		GetUserByID(id string) (User, error)
		GetUserByEmail(email string) (User, error)
	}

	ServiceInterface interface {
		Create(nu NewUser) (User, error)
		QueryAll() ([]User, error)
		QueryByRole(role Role) ([]User, error)
		GetByID(id string) (User, error)
		GetByEmail(email string) (User, error)
	}

	Service struct {
		repo    Repository
		mailSvc core.EmailService
	}
)

var _ ServiceInterface = (*Service)(nil)

func NewService(repo Repository, mailSvc core.EmailService) *Service {
	return &Service{repo: repo, mailSvc: mailSvc}
}

func (svc *Service) Create(nu NewUser) (User, error) {
	if err := svc.repo.CheckEmailUniqueness(nu.Email); err != nil {
		return User{}, err
	}

	usr := User{
		Name:      nu.Name,
		Email:     nu.Email,
		Role:      nu.Role,
		AvatarURL: nu.AvatarURL,
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return User{}, err
	}

	usr, err := svc.repo.CreateUser(usr)
	if err != nil {
		return User{}, err
	}

	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: usr.Name, Address: usr.Email}},
		Subject: "Welcome to " + core.Conf.AppName,
		BodyStr: fmt.Sprintf("Hi %s,\n\nA %s account has been created for you. "+
			"Log in with your email address to get started.", usr.Name, usr.Role),
	})
	return usr, nil
}

func (svc *Service) QueryAll() ([]User, error) {
	return svc.repo.QueryAllUsers()
}

func (svc *Service) QueryByRole(role Role) ([]User, error) {
	all, err := svc.repo.QueryAllUsers()
	if err != nil {
		return nil, err
	}
	users := make([]User, 0, len(all))
	for _, usr := range all {
		if usr.Role == role {
			users = append(users, usr)
		}
	}
	return users, nil
}

func (svc *Service) GetByID(id string) (User, error) {
	return svc.repo.GetUserByID(id)
}

func (svc *Service) GetByEmail(email string) (User, error) {
	return svc.repo.GetUserByEmail(core.CleanString(email, true /* lower */))
}
