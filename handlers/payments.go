package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/charge"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"daebak/restapi/models"
	"daebak/restapi/services"
)

type PaymentRequest struct {
	OrderID     string `json:"order_id"`
	Currency    string `json:"currency"`
	SourceToken string `json:"source_token"`
}

type PaymentResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// ProcessPaymentHandler charges the caller's card for an order total via
// Stripe. The amount always comes from the stored order, never from the
// request. 503 when no Stripe key is configured.
func (db *DB) ProcessPaymentHandler(w http.ResponseWriter, r *http.Request) {
	if db.StripeKey == "" {
		http.Error(w, "Payments are not configured", http.StatusServiceUnavailable)
		return
	}

	_, uid, _ := requestIdentity(r)

	var paymentReq PaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&paymentReq); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if paymentReq.Currency == "" {
		paymentReq.Currency = "usd"
	}

	orderID, err := primitive.ObjectIDFromHex(paymentReq.OrderID)
	if err != nil {
		http.Error(w, "Invalid order ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var order models.Order
	err = db.OrdersCollection.FindOne(ctx, bson.M{"_id": orderID, "scope": uid}).Decode(&order)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			http.Error(w, "Order not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to fetch order", http.StatusInternalServerError)
		return
	}

	stripe.Key = db.StripeKey

	chargeParams := &stripe.ChargeParams{
		Amount:   stripe.Int64(services.AmountInCents(order.Total)),
		Currency: stripe.String(paymentReq.Currency),
		Source:   &stripe.SourceParams{Token: stripe.String(paymentReq.SourceToken)},
	}
	chargeParams.AddMetadata("order_id", paymentReq.OrderID)

	_, err = charge.New(chargeParams)
	if err != nil {
		http.Error(w, "Failed to process payment", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, PaymentResponse{
		Status:  "success",
		Message: "Payment processed successfully",
	})
}
