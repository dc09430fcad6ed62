package models

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownTable = errors.New("unknown table")

// Table names a record table the consoles can browse.
type Table string

const (
	TableCustomers   Table = "customers"
	TableConsultants Table = "consultants"
)

func ParseTable(name string) (Table, error) {
	switch Table(strings.ToLower(strings.TrimSpace(name))) {
	case TableCustomers:
		return TableCustomers, nil
	case TableConsultants:
		return TableConsultants, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTable, name)
}

type ConsultantType string

const (
	ConsultantInternal ConsultantType = "internal"
	ConsultantExternal ConsultantType = "external"
)

func (t ConsultantType) Valid() bool {
	return t == ConsultantInternal || t == ConsultantExternal
}

type SubscriptionStatus string

const (
	SubscriptionActive    SubscriptionStatus = "active"
	SubscriptionInactive  SubscriptionStatus = "inactive"
	SubscriptionCancelled SubscriptionStatus = "cancelled"
	SubscriptionExpired   SubscriptionStatus = "expired"
)

var SubscriptionStatuses = []SubscriptionStatus{
	SubscriptionActive, SubscriptionInactive, SubscriptionCancelled, SubscriptionExpired,
}

func (s SubscriptionStatus) Valid() bool {
	for _, v := range SubscriptionStatuses {
		if s == v {
			return true
		}
	}
	return false
}

type Customer struct {
	ID                  string             `json:"id" yaml:"id"`
	Name                string             `json:"name" yaml:"name"`
	Email               string             `json:"email" yaml:"email"`
	Phone               string             `json:"phone,omitempty" yaml:"phone,omitempty"`
	CountryCode         string             `json:"country_code,omitempty" yaml:"country_code,omitempty"`
	City                string             `json:"city,omitempty" yaml:"city,omitempty"`
	Country             string             `json:"country,omitempty" yaml:"country,omitempty"`
	ConsultantType      ConsultantType     `json:"consultant_type" yaml:"consultant_type"`
	InternalConsultant  string             `json:"internal_consultant,omitempty" yaml:"internal_consultant,omitempty"`
	SubscriptionStatus  SubscriptionStatus `json:"subscription_status" yaml:"subscription_status"`
	SubscriptionEndDate string             `json:"subscription_end_date,omitempty" yaml:"subscription_end_date,omitempty"`
	Comments            string             `json:"comments,omitempty" yaml:"comments,omitempty"`
}

// CustomerFields are the keys Customer.Field answers, in display order.
var CustomerFields = []string{
	"id", "name", "email", "phone", "country_code", "city", "country",
	"consultant_type", "internal_consultant", "subscription_status",
	"subscription_end_date", "comments",
}

func (c Customer) Field(key string) (any, bool) {
	switch key {
	case "id":
		return c.ID, true
	case "name":
		return c.Name, true
	case "email":
		return c.Email, true
	case "phone":
		return c.Phone, true
	case "country_code":
		return c.CountryCode, true
	case "city":
		return c.City, true
	case "country":
		return c.Country, true
	case "consultant_type":
		return string(c.ConsultantType), true
	case "internal_consultant":
		return c.InternalConsultant, true
	case "subscription_status":
		return string(c.SubscriptionStatus), true
	case "subscription_end_date":
		return c.SubscriptionEndDate, true
	case "comments":
		return c.Comments, true
	}
	return nil, false
}

// FullPhone joins the country code and number the way the profile view shows it.
func (c Customer) FullPhone() string {
	if c.Phone == "" {
		return ""
	}
	if c.CountryCode == "" {
		return c.Phone
	}
	return c.CountryCode + " " + c.Phone
}

type ConsultantStatus string

const (
	ConsultantActive   ConsultantStatus = "active"
	ConsultantInactive ConsultantStatus = "inactive"
)

type Consultant struct {
	ID         string           `json:"id" yaml:"id"`
	Name       string           `json:"name" yaml:"name"`
	Email      string           `json:"email" yaml:"email"`
	Phone      string           `json:"phone,omitempty" yaml:"phone,omitempty"`
	Role       string           `json:"role,omitempty" yaml:"role,omitempty"`
	Department string           `json:"department,omitempty" yaml:"department,omitempty"`
	Status     ConsultantStatus `json:"status" yaml:"status"`
}

var ConsultantFields = []string{"id", "name", "email", "phone", "role", "department", "status"}

func (c Consultant) Field(key string) (any, bool) {
	switch key {
	case "id":
		return c.ID, true
	case "name":
		return c.Name, true
	case "email":
		return c.Email, true
	case "phone":
		return c.Phone, true
	case "role":
		return c.Role, true
	case "department":
		return c.Department, true
	case "status":
		return string(c.Status), true
	}
	return nil, false
}

// Role gates what a viewer of the console may see and do.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleConsultant Role = "consultant"
	RoleViewer     Role = "viewer"
)

// ParseRole maps free text onto a known role; anything else is a viewer.
func ParseRole(s string) Role {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin
	case RoleConsultant:
		return RoleConsultant
	default:
		return RoleViewer
	}
}

func (r Role) CanManage() bool { return r == RoleAdmin }
