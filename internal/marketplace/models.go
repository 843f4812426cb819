package marketplace

import "time"

// Product is a listing offered by a seller principal. Prices are in ledger base units.
type Product struct {
	ID            string `json:"id" bson:"id"`
	Title         string `json:"title" bson:"title"`
	Description   string `json:"description" bson:"description"`
	Location      string `json:"location" bson:"location"`
	AttachmentURL string `json:"attachmentURL" bson:"attachmentURL"`
	Seller        string `json:"seller" bson:"seller"`
	Price         uint64 `json:"price" bson:"price"`
	SoldAmount    uint64 `json:"soldAmount" bson:"soldAmount"`
}

// ProductInput carries the caller-supplied product fields.
type ProductInput struct {
	Title         string
	Description   string
	Location      string
	AttachmentURL string
	Price         uint64
}

type OrderStatus string

// Orders are only recorded; nothing moves them past pending.
const OrderPending OrderStatus = "pending"

type Order struct {
	ID        string      `json:"id" bson:"id"`
	ProductID string      `json:"productId" bson:"productId"`
	Price     uint64      `json:"price" bson:"price"`
	Seller    string      `json:"seller" bson:"seller"`
	Buyer     string      `json:"buyer" bson:"buyer"`
	Status    OrderStatus `json:"status" bson:"status"`
	CreatedAt time.Time   `json:"createdAt" bson:"createdAt"`
}
