package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type ApplicationState string

const (
	StatePending  ApplicationState = "Pending"
	StateApproved ApplicationState = "Approved"
	StateDeclined ApplicationState = "Declined"
)

// KYC document labels.
const (
	KycNationalID         = "National-ID/Passport"
	KycProofOfResidence   = "Proof Of Residence"
	KycPaySlip            = "Pay Slip"
	KycLetterFromEmployer = "Letter From Employer"
	KycBankStatement      = "Bank Statement"
)

// RequiredKycLabels lists the documents every application must carry, in report order.
var RequiredKycLabels = []string{KycNationalID, KycProofOfResidence, KycPaySlip}

var MaritalStatuses = []string{"Single", "Married"}

var NaturesOfRes = []string{"Owned", "Rented", "Mortgaged", "Provided By Employer", "Staying With Parents"}

type NextOfKin struct {
	FullName     string `json:"fullName"`
	Relationship string `json:"relationship"`
	Employer     string `json:"employer"`
	ResAddress   string `json:"resAddress"`
	PhoneNumber  string `json:"phoneNumber"`
}

// Application is an applicant's loan request. State is a creation-time snapshot and is
// never read back; the overall decision is always derived from Decisions.
type Application struct {
	ID               int64            `json:"id" db:"id"`
	ApplicantID      int64            `json:"applicantId" db:"applicant_id"`
	State            ApplicationState `json:"-" db:"state"`
	MoreDetail       string           `json:"moreDetail" db:"more_detail"`
	Bank             string           `json:"bank" db:"bank"`
	BankBranch       string           `json:"bankBranch" db:"bank_branch"`
	AccNumber        string           `json:"accNumber" db:"acc_number"`
	AccName          string           `json:"accName" db:"acc_name"`
	LoanPurpose      string           `json:"loanPurpose" db:"loan_purpose"`
	AmtRequired      decimal.Decimal  `json:"amtRequired" db:"amt_required"`
	RepaymentPeriod  int              `json:"repaymentPeriod" db:"repayment_period"`
	Title            string           `json:"title" db:"title"`
	FullName         string           `json:"fullName" db:"full_name"`
	DOB              time.Time        `json:"dob" db:"dob"`
	NationalID       string           `json:"nationalId" db:"national_id"`
	PhoneNumber      string           `json:"phoneNumber" db:"phone_number"`
	ResAddress       string           `json:"resAddress" db:"res_address"`
	NatureOfRes      string           `json:"natureOfRes" db:"nature_of_res"`
	FullMaidenNames  string           `json:"fullMaidenNames" db:"full_maiden_names"`
	FullNameOfSpouse string           `json:"fullNameOfSpouse" db:"full_name_of_spouse"`
	MaritalStatus    string           `json:"maritalStatus" db:"marital_status"`
	Profession       string           `json:"profession" db:"profession"`
	Employer         string           `json:"employer" db:"employer"`
	EmployedSince    time.Time        `json:"employedSince" db:"employed_since"`
	GrossIncome      decimal.Decimal  `json:"grossIncome" db:"gross_income"`
	NetIncome        decimal.Decimal  `json:"netIncome" db:"net_income"`
	FirstNok         NextOfKin        `json:"firstNok"`
	SecondNok        NextOfKin        `json:"secondNok"`
	Deactivated      bool             `json:"deactivated" db:"deactivated"`
	CreatedAt        time.Time        `json:"createdAt" db:"created_at"`
	UpdatedAt        time.Time        `json:"updatedAt" db:"updated_at"`
}

// Channel routes an application to one lender.
type Channel struct {
	ID            int64      `json:"id" db:"id"`
	ApplicationID int64      `json:"applicationId" db:"application_id"`
	LenderID      int64      `json:"lenderId" db:"lender_id"`
	LenderName    string     `json:"lenderName"`
	CreatedAt     time.Time  `json:"createdAt" db:"created_at"`
	Decisions     []Decision `json:"decisions"`
}

// Decision is one lender verdict on a channel. Decisions are append-only.
type Decision struct {
	ID        int64            `json:"id" db:"id"`
	ChannelID int64            `json:"channelId" db:"channel_id"`
	Decision  ApplicationState `json:"decision" db:"decision"`
	Comment   string           `json:"comment" db:"comment"`
	CreatedAt time.Time        `json:"createdAt" db:"created_at"`
}

type KycDoc struct {
	ID            int64     `json:"id" db:"id"`
	ApplicationID int64     `json:"applicationId" db:"application_id"`
	Label         string    `json:"label" db:"label"`
	PublicID      string    `json:"publicId" db:"public_id"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
}

type PriorLoan struct {
	ID               int64           `json:"id" db:"id"`
	ApplicationID    int64           `json:"applicationId" db:"application_id"`
	Lender           string          `json:"lender" db:"lender"`
	ExpiryDate       time.Time       `json:"expiryDate" db:"expiry_date"`
	Amount           decimal.Decimal `json:"amount" db:"amount"`
	MonthlyRepayment decimal.Decimal `json:"monthlyRepayment" db:"monthly_repayment"`
	Balance          decimal.Decimal `json:"balance" db:"balance"`
	CreatedAt        time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt        time.Time       `json:"updatedAt" db:"updated_at"`
}

// ApplicationDetail is the full read model of one application.
type ApplicationDetail struct {
	Application
	Applicant User             `json:"applicant"`
	Channels  []Channel        `json:"channels"`
	KycDocs   []KycDoc         `json:"kycDocs"`
	PriorLoan *PriorLoan       `json:"priorLoan,omitempty"`
	Decision  ApplicationState `json:"decision"`
}

// AllDecisions flattens the decisions of every channel.
func (d *ApplicationDetail) AllDecisions() []Decision {
	var out []Decision
	for _, ch := range d.Channels {
		out = append(out, ch.Decisions...)
	}
	return out
}

// LenderIDs returns the lenders the application is routed to.
func (d *ApplicationDetail) LenderIDs() []int64 {
	ids := make([]int64, 0, len(d.Channels))
	for _, ch := range d.Channels {
		ids = append(ids, ch.LenderID)
	}
	return ids
}

// ApplicationSummary is one row of the applications listing.
type ApplicationSummary struct {
	ID            int64            `json:"id"`
	ApplicantID   int64            `json:"applicantId"`
	ApplicantName string           `json:"applicantName"`
	LoanPurpose   string           `json:"loanPurpose"`
	AmtRequired   decimal.Decimal  `json:"amtRequired"`
	Lenders       []string         `json:"lenders"`
	Decision      ApplicationState `json:"decision"`
	Deactivated   bool             `json:"deactivated"`
	CreatedAt     time.Time        `json:"createdAt"`
	Decisions     []Decision       `json:"-"`
}
