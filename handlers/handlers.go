// Package handlers provides the HTTP handlers for the Mr. Daebak ordering
// API: registration and sessions, the menu catalog, inventory, the
// session cart, order placement and fulfillment, payments and the AI
// assistant endpoints.
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/otel"
	"golang.org/x/crypto/bcrypt"

	"daebak/restapi/ai"
	"daebak/restapi/models"
	"daebak/restapi/services"
)

type DB struct {
	UserCollection           *mongo.Collection
	MenuItemCollection       *mongo.Collection
	InventoryCollection      *mongo.Collection
	OrdersCollection         *mongo.Collection
	RefreshTokenCollection   *mongo.Collection
	TokenBlacklistCollection *mongo.Collection
	AuditLogCollection       *mongo.Collection

	// Client is needed for the multi-document order placement transaction.
	Client *mongo.Client

	Carts     *services.CartStore
	Assistant *ai.Assistant

	Secret    []byte
	StaffCode string
	StripeKey string

	chatMu sync.Mutex
	chats  map[string]*ai.Chat
}

type Response struct {
	AccessToken  string `json:"token" bson:"token"`
	RefreshToken string `json:"refresh_token" bson:"refresh_token"`
}

// Define Prometheus metrics
var (
	requestCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "create_user_requests_total",
			Help: "Total number of requests to create user",
		},
		[]string{"status"},
	)

	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "create_user_duration_seconds",
			Help:    "Histogram of request durations for creating user",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"status"},
	)

	loginRequests = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "login_requests_total",
		Help: "Total number of login requests",
	})

	loginRequestsbyStatus = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "login_requests_by_status_total",
		Help: "Total number of login requests by status",
	},
		[]string{"status"})

	ordersPlaced = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_placed_total",
		Help: "Total number of order placement attempts",
	},
		[]string{"status"})

	orderPlacementDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "order_placement_duration_seconds",
		Help:    "Histogram of order placement durations",
		Buckets: prometheus.DefBuckets,
	})

	inventoryAdjustments = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "inventory_adjustments_total",
		Help: "Total number of manual inventory adjustments",
	})
)

func Init() {
	// Register metrics with Prometheus
	prometheus.MustRegister(requestCount)
	prometheus.MustRegister(requestDuration)
	prometheus.MustRegister(loginRequests)
	prometheus.MustRegister(loginRequestsbyStatus)
	prometheus.MustRegister(ordersPlaced)
	prometheus.MustRegister(orderPlacementDuration)
	prometheus.MustRegister(inventoryAdjustments)
}

// requestIdentity pulls the auth middleware's context values. The uid also
// serves as the account scope for every collection query.
func requestIdentity(r *http.Request) (username, uid, role string) {
	username, _ = r.Context().Value("username").(string)
	uid, _ = r.Context().Value("uid").(string)
	role, _ = r.Context().Value("userRole").(string)
	return
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

//CreateUserHandler handles requests to register a new account

func (db *DB) CreateUserHandler(w http.ResponseWriter, r *http.Request) {
	// Start the request duration timer
	start := time.Now()

	// Start tracing (OpenTelemetry)
	_, span := otel.Tracer("daebak-api").Start(r.Context(), "CreateUserHandler")
	defer span.End()

	var req struct {
		Name      string `json:"name"`
		Email     string `json:"email"`
		Password  string `json:"password"`
		Role      string `json:"role"`
		StaffCode string `json:"staff_code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		span.RecordError(err)
		http.Error(w, "Error decoding request body: "+err.Error(), http.StatusBadRequest)
		requestCount.WithLabelValues("error").Inc()
		requestDuration.WithLabelValues("error").Observe(time.Since(start).Seconds())
		return
	}

	// Staff registration is gated behind the shared staff code
	if err := services.ValidateRegistrationRole(req.Role, req.StaffCode, db.StaffCode); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		requestCount.WithLabelValues("error").Inc()
		requestDuration.WithLabelValues("error").Observe(time.Since(start).Seconds())
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Check if the email is already registered
	var existingUser struct {
		Email string `bson:"email"`
	}
	err := db.UserCollection.FindOne(ctx, bson.M{"email": req.Email}).Decode(&existingUser)
	if err != nil && err != mongo.ErrNoDocuments {
		http.Error(w, "Database error: "+err.Error(), http.StatusInternalServerError)
		requestCount.WithLabelValues("error").Inc()
		requestDuration.WithLabelValues("error").Observe(time.Since(start).Seconds())
		return
	}
	if existingUser.Email == req.Email && req.Email != "" {
		http.Error(w, "Email is already registered", http.StatusBadRequest)
		requestCount.WithLabelValues("error").Inc()
		requestDuration.WithLabelValues("error").Observe(time.Since(start).Seconds())
		return
	}

	// Hash the user's password
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		http.Error(w, "Failed to hash password: "+err.Error(), http.StatusInternalServerError)
		requestCount.WithLabelValues("error").Inc()
		requestDuration.WithLabelValues("error").Observe(time.Since(start).Seconds())
		return
	}

	user := models.User{
		Name:            req.Name,
		Email:           req.Email,
		Password:        string(passwordHash),
		Role:            req.Role,
		CompletedOrders: 0,
	}

	result, err := db.UserCollection.InsertOne(ctx, user)
	if err != nil {
		http.Error(w, "Failed to create user: "+err.Error(), http.StatusInternalServerError)
		requestCount.WithLabelValues("error").Inc()
		requestDuration.WithLabelValues("error").Observe(time.Since(start).Seconds())
		return
	}

	response := map[string]interface{}{
		"message":     "User created successfully",
		"inserted_id": result.InsertedID,
	}
	writeJSON(w, http.StatusCreated, response)

	requestCount.WithLabelValues("success").Inc()
	requestDuration.WithLabelValues("success").Observe(time.Since(start).Seconds())
}

func (db *DB) LoginTokenHandler(w http.ResponseWriter, r *http.Request) {

	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		loginRequestsbyStatus.WithLabelValues("Error").Inc()
		return
	}

	loginRequests.Inc()
	err := r.ParseForm()
	if err != nil {
		http.Error(w, "Invalid Form Data", http.StatusBadRequest)
		loginRequestsbyStatus.WithLabelValues("Error").Inc()
		return
	}

	email := r.PostForm.Get("email")
	password := r.PostForm.Get("password")

	if email == "" || password == "" {
		http.Error(w, "Email and Password are required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var user models.User
	err = db.UserCollection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			http.Error(w, "User not Found", http.StatusNotFound)
			loginRequestsbyStatus.WithLabelValues("Error").Inc()
			return
		}
		http.Error(w, "Database Error", http.StatusInternalServerError)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		http.Error(w, "Invalid Credentials", http.StatusBadRequest)
		loginRequestsbyStatus.WithLabelValues("Error").Inc()
		return
	}

	uid := user.ID.Hex()

	// Password is correct, generate JWT token
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"username": user.Name,
		"uid":      uid,
		"role":     user.Role,
		"exp":      time.Now().Add(time.Hour).Unix(),
		"iat":      time.Now().Unix(),
	})
	tokenString, err := token.SignedString(db.Secret)
	if err != nil {
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		loginRequestsbyStatus.WithLabelValues("Error").Inc()
		return
	}

	//Generate Refresh Token
	refreshToken := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"uid":  uid,
		"exp":  time.Now().Add(24 * time.Hour).Unix(),
		"iat":  time.Now().Unix(),
		"type": "refresh",
	})

	refreshTokenString, err := refreshToken.SignedString(db.Secret)
	if err != nil {
		http.Error(w, "Failed to generate token "+err.Error(), http.StatusInternalServerError)
		loginRequestsbyStatus.WithLabelValues("Error").Inc()
		return
	}

	//Store refresh token in the database
	_, err = db.RefreshTokenCollection.InsertOne(ctx, bson.M{
		"uid":          uid,
		"refreshToken": refreshTokenString,
		"iat":          time.Now().Unix(),
	})
	if err != nil {
		http.Error(w, "Failed to store refresh Token "+err.Error(), http.StatusInternalServerError)
		loginRequestsbyStatus.WithLabelValues("Error").Inc()
		return
	}

	writeJSON(w, http.StatusOK, Response{AccessToken: tokenString, RefreshToken: refreshTokenString})
	loginRequestsbyStatus.WithLabelValues("success").Inc()
}

func (db *DB) RefreshTokenHandler(w http.ResponseWriter, r *http.Request) {
	var request struct {
		RefreshToken string `json:"refresh_token"`
	}

	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	if request.RefreshToken == "" {
		http.Error(w, "Refresh token is required", http.StatusBadRequest)
		return
	}

	token, err := jwt.Parse(request.RefreshToken, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return db.Secret, nil
	})

	if err != nil || !token.Valid {
		http.Error(w, "Invalid refresh token", http.StatusUnauthorized)
		return
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		http.Error(w, "Invalid token claims", http.StatusUnauthorized)
		return
	}
	if claims["type"] != "refresh" {
		http.Error(w, "Invalid token type", http.StatusUnauthorized)
		return
	}

	uid, ok := claims["uid"].(string)
	if !ok {
		http.Error(w, "Invalid token payload", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Check if the refresh token exists in the database
	var storedToken struct {
		RefreshToken string `json:"refreshToken" bson:"refreshToken"`
	}
	err = db.RefreshTokenCollection.FindOne(ctx, bson.M{
		"uid":          uid,
		"refreshToken": request.RefreshToken,
	}).Decode(&storedToken)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			http.Error(w, "Refresh token not found", http.StatusUnauthorized)
			return
		}
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	// The new access token needs the current name and role
	user, err := db.findUserByUID(ctx, uid)
	if err != nil {
		http.Error(w, "User not found", http.StatusUnauthorized)
		return
	}

	newAccessToken := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"username": user.Name,
		"uid":      uid,
		"role":     user.Role,
		"exp":      time.Now().Add(1 * time.Hour).Unix(),
		"iat":      time.Now().Unix(),
	})

	newAccessTokenString, err := newAccessToken.SignedString(db.Secret)
	if err != nil {
		http.Error(w, "Failed to generate access token", http.StatusInternalServerError)
		return
	}

	response := struct {
		AccessToken string `json:"access_token"`
	}{
		AccessToken: newAccessTokenString,
	}
	writeJSON(w, http.StatusOK, response)
}

//LogoutUserHandler handles requests to logout user

func (db *DB) LogoutUserHandler(w http.ResponseWriter, r *http.Request) {
	username, uid, _ := requestIdentity(r)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	//Blacklist the access token
	accessToken := r.Header.Get("token")
	if accessToken != "" {
		blacklistToken := bson.M{"token": accessToken, "expiresAt": time.Now().Add(time.Hour).Unix()}
		_, err := db.TokenBlacklistCollection.InsertOne(ctx, blacklistToken)
		if err != nil {
			http.Error(w, "Failed to blacklist token", http.StatusInternalServerError)
			return
		}
	}

	// Delete refresh token from the database
	_, err := db.RefreshTokenCollection.DeleteOne(ctx, bson.M{"uid": uid})
	if err != nil {
		http.Error(w, "Failed to delete refresh token", http.StatusInternalServerError)
		return
	}

	// Session state is torn down with the session: cart and chat are gone
	db.Carts.ClearCart(uid)
	db.dropChat(uid)

	//Log the logout operation for auditing
	logoutLog := bson.M{"username": username, "uid": uid, "timestamp": time.Now().Unix(), "operation": "logout", "ip": r.RemoteAddr}
	_, err = db.AuditLogCollection.InsertOne(ctx, logoutLog)
	if err != nil {
		http.Error(w, "Failed to log the logout operation", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "User logged out successfully"})
}

func (db *DB) GetCurrentUserHandler(w http.ResponseWriter, r *http.Request) {
	_, uid, _ := requestIdentity(r)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	user, err := db.findUserByUID(ctx, uid)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			http.Error(w, "User not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Error fetching user details", http.StatusInternalServerError)
		return
	}

	response := struct {
		models.Profile
		CouponAvailable bool           `json:"coupon_available"`
		Coupon          *models.Coupon `json:"coupon,omitempty"`
	}{
		Profile: models.Profile{
			Name:            user.Name,
			Email:           user.Email,
			Role:            user.Role,
			CompletedOrders: user.CompletedOrders,
		},
		CouponAvailable: services.CouponAvailable(user.CompletedOrders),
	}
	if response.CouponAvailable {
		coupon := services.LoyaltyCoupon
		response.Coupon = &coupon
	}

	writeJSON(w, http.StatusOK, response)
}

func (db *DB) findUserByUID(ctx context.Context, uid string) (*models.User, error) {
	objectID, err := primitive.ObjectIDFromHex(uid)
	if err != nil {
		return nil, err
	}
	var user models.User
	if err := db.UserCollection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}
