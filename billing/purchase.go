package billing

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ItemType is the closed set of purchasable item kinds.
type ItemType string

const (
	ItemTypeInApp ItemType = "inapp"
	ItemTypeSubs  ItemType = "subs"
)

func (t ItemType) Valid() bool {
	return t == ItemTypeInApp || t == ItemTypeSubs
}

// ErrMissingSKU reports purchase data that parsed as JSON but carries no
// product identifier.
var ErrMissingSKU = errors.New("billing: purchase data has no productId")

// Purchase is the parsed record of a single purchase attempt. It is
// immutable after construction.
//
// OriginalJSON and Signature hold the exact strings received from the
// platform. Signature verification must run over those bytes; verifying a
// re-serialized form could make a forged payload verify or a legitimate
// one fail.
type Purchase struct {
	ItemType         ItemType
	OrderID          string
	PackageName      string
	SKU              string
	PurchaseTime     int64
	PurchaseState    int
	DeveloperPayload string
	Token            string
	OriginalJSON     string
	Signature        string
}

// ParsePurchase parses a purchase payload and its signature. It never
// verifies the signature; parsing and trust-checking are separate steps.
func ParsePurchase(itemType ItemType, data, signature string) (*Purchase, error) {
	var fields struct {
		OrderID          string `json:"orderId"`
		PackageName      string `json:"packageName"`
		ProductID        string `json:"productId"`
		PurchaseTime     int64  `json:"purchaseTime"`
		PurchaseState    int    `json:"purchaseState"`
		DeveloperPayload string `json:"developerPayload"`
		Token            string `json:"token"`
		PurchaseToken    string `json:"purchaseToken"`
	}
	if err := json.Unmarshal([]byte(data), &fields); err != nil {
		return nil, fmt.Errorf("malformed purchase data: %w", err)
	}
	if fields.ProductID == "" {
		return nil, ErrMissingSKU
	}

	// Older platform versions used "token" where newer ones use
	// "purchaseToken".
	token := fields.Token
	if token == "" {
		token = fields.PurchaseToken
	}

	return &Purchase{
		ItemType:         itemType,
		OrderID:          fields.OrderID,
		PackageName:      fields.PackageName,
		SKU:              fields.ProductID,
		PurchaseTime:     fields.PurchaseTime,
		PurchaseState:    fields.PurchaseState,
		DeveloperPayload: fields.DeveloperPayload,
		Token:            token,
		OriginalJSON:     data,
		Signature:        signature,
	}, nil
}

func (p *Purchase) String() string {
	return fmt.Sprintf("PurchaseInfo(type:%s): %s", p.ItemType, p.OriginalJSON)
}
