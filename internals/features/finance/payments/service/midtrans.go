package service

import (
	"errors"

	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"

	"akademiku_backend/internals/features/finance/payments/model"
)

/* =========================================================
   Midtrans Client
========================================================= */

var SnapClient snap.Client

// InitMidtrans harus dipanggil saat bootstrap app.
// useProduction=true untuk Production, false untuk Sandbox.
func InitMidtrans(serverKey string, useProduction bool) {
	if useProduction {
		SnapClient.New(serverKey, midtrans.Production)
	} else {
		SnapClient.New(serverKey, midtrans.Sandbox)
	}
}

/* =========================================================
   Input helper untuk data customer
========================================================= */

type CustomerInput struct {
	FirstName string
	Email     string
	Phone     string
}

/* =========================================================
   Generate Snap Token
========================================================= */

func GenerateSnapToken(p model.Payment, cust CustomerInput) (string, string, error) {
	if p.PaymentAmountIDR <= 0 {
		return "", "", errors.New("invalid payment_amount_idr")
	}
	if p.PaymentExternalID == nil || *p.PaymentExternalID == "" {
		return "", "", errors.New("payment_external_id is required (used as OrderID)")
	}

	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  *p.PaymentExternalID,
			GrossAmt: int64(p.PaymentAmountIDR),
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: cust.FirstName,
			Email: cust.Email,
			Phone: cust.Phone,
		},
		CreditCard: &snap.CreditCardDetails{Secure: true},
	}

	resp, errSnap := SnapClient.CreateTransaction(req)
	if errSnap != nil {
		return "", "", errSnap
	}
	return resp.Token, resp.RedirectURL, nil
}
