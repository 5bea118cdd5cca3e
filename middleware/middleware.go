package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/golang-jwt/jwt/v5"

	"daebak/restapi/models"
)

//ValidateRegistrationBody is a middleware function to validate the register request body

func ValidateRegistrationBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		contentType := r.Header.Get("Content-Type")
		if contentType != "application/json" {
			http.Error(w, "Content-Type header must be application/json", http.StatusUnsupportedMediaType)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Error reading request body", http.StatusInternalServerError)
			return
		}

		if len(body) == 0 {
			http.Error(w, "Request body is empty", http.StatusBadRequest)
			return
		}

		type RequestData struct {
			Name     string `json:"name"`
			Email    string `json:"email"`
			Password string `json:"password"`
			Role     string `json:"role"`
		}

		var requestData RequestData
		if err := json.Unmarshal(body, &requestData); err != nil {
			http.Error(w, "Error decoding JSON: "+err.Error(), http.StatusBadRequest)
			return
		}

		if requestData.Name == "" || requestData.Email == "" || requestData.Password == "" || requestData.Role == "" {
			http.Error(w, "Name, email, password and role are required fields", http.StatusBadRequest)
			return
		}

		// Restore the body for the handler
		r.Body = io.NopCloser(bytes.NewReader(body))

		next.ServeHTTP(w, r)
	})
}

// Auth validates session tokens and loads the current user into the
// request context.
type Auth struct {
	Secret []byte
}

// SetCurrentUser parses the JWT from the "token" header and sets the
// username, uid and role claims in the request context. Requests without a
// valid token are rejected.
func (a *Auth) SetCurrentUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := r.Header.Get("token")

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return a.Secret, nil
		})

		if err != nil || !token.Valid {
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte("Access Denied; Please check the access token"))
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte("Invalid token claims"))
			return
		}

		name, ok := claims["username"].(string)
		if !ok {
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte("Missing or invalid 'username' field in claims"))
			return
		}
		uid, ok := claims["uid"].(string)
		if !ok {
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte("Missing or invalid 'uid' field in claims"))
			return
		}
		role, ok := claims["role"].(string)
		if !ok {
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte("Missing or invalid 'role' field in claims"))
			return
		}

		ctx := context.WithValue(r.Context(), "username", name)
		ctx = context.WithValue(ctx, "uid", uid)
		ctx = context.WithValue(ctx, "userRole", role)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireStaff gates staff-only routes. It must run after SetCurrentUser.
func RequireStaff(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role, _ := r.Context().Value("userRole").(string)
		if role != models.RoleStaff {
			http.Error(w, "Unauthorized", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
