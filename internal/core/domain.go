package core

import (
	"errors"
	"strings"
	"time"
)

type PaymentStatus string

const (
	PaymentUnpaid PaymentStatus = "unpaid"
	PaymentPaid   PaymentStatus = "paid"
)

type Category string

const (
	CategoryFuel         Category = "fuel"
	CategoryMaintenance  Category = "maintenance"
	CategoryTolls        Category = "tolls"
	CategoryFood         Category = "food"
	CategoryInsurance    Category = "insurance"
	CategoryPermits      Category = "permits"
	CategoryTruckPayment Category = "truck_payment"
	CategorySupplies     Category = "supplies"
	CategoryDriversPay   Category = "drivers_pay"
	CategoryOther        Category = "other"
)

// Categories lists every valid expense category in display order.
var Categories = []Category{
	CategoryFuel,
	CategoryMaintenance,
	CategoryTolls,
	CategoryFood,
	CategoryInsurance,
	CategoryPermits,
	CategoryTruckPayment,
	CategorySupplies,
	CategoryDriversPay,
	CategoryOther,
}

func (c Category) Valid() bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}
	return false
}

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidCategory  = errors.New("invalid category")
	ErrEmptyInvoiceNo   = errors.New("empty invoice number")
	ErrEmptyCustomer    = errors.New("empty customer name")
	ErrInvalidRecipient = errors.New("invalid recipient address")
)

// CompanyProfile is the issuer identity, one per installation.
// All fields default to the empty string, never to a null-ish value.
type CompanyProfile struct {
	Name              string `json:"name"`
	Address           string `json:"address"`
	CarrierID         string `json:"carrierId"`
	NotificationEmail string `json:"notificationEmail"`
}

// AccessoryCharge is an extra line on an invoice (detention, lumper, ...).
type AccessoryCharge struct {
	Description string `json:"description"`
	Amount      string `json:"amount"`
}

// ExpenseItem is an itemized line on a receipt.
type ExpenseItem struct {
	Description string `json:"description"`
	Price       string `json:"price"`
}

// Invoice is one billed load. Company fields are a snapshot of the profile
// at creation time so old invoices keep the issuer info they were sent with.
type Invoice struct {
	ID            string `json:"id"`
	InvoiceNumber string `json:"invoiceNumber"`
	InvoiceDate   Date   `json:"invoiceDate"`
	CustomerName  string `json:"customerName"`
	DateDelivered Date   `json:"dateDelivered"`
	LoadNumber    string `json:"loadNumber"`
	Amount        string `json:"amount"`

	CompanyName       string `json:"companyName"`
	CompanyAddress    string `json:"companyAddress"`
	CarrierID         string `json:"carrierId"`
	NotificationEmail string `json:"notificationEmail"`

	ProductDescription string            `json:"productDescription,omitempty"`
	PieceCount         int               `json:"pieceCount,omitempty"`
	RatePerPiece       string            `json:"ratePerPiece,omitempty"`
	AccessoryCharges   []AccessoryCharge `json:"accessoryCharges,omitempty"`

	Timestamp     time.Time     `json:"timestamp"`
	PaymentStatus PaymentStatus `json:"paymentStatus"`
}

// Expense is one cost record.
type Expense struct {
	ID        string        `json:"id"`
	Date      Date          `json:"date"`
	Amount    string        `json:"amount"`
	Category  Category      `json:"category"`
	Vendor    string        `json:"vendor"`
	Notes     string        `json:"notes"`
	Items     []ExpenseItem `json:"items,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}

func (i Invoice) Validate() error {
	if strings.TrimSpace(i.InvoiceNumber) == "" {
		return ErrEmptyInvoiceNo
	}
	if strings.TrimSpace(i.CustomerName) == "" {
		return ErrEmptyCustomer
	}
	if i.InvoiceDate.IsZero() {
		return ErrInvalidDate
	}
	if _, err := ParseAmountCents(i.Amount); err != nil {
		return err
	}
	return nil
}

func (e Expense) Validate() error {
	if e.Date.IsZero() {
		return ErrInvalidDate
	}
	if !e.Category.Valid() {
		return ErrInvalidCategory
	}
	if _, err := ParseAmountCents(e.Amount); err != nil {
		return err
	}
	return nil
}
