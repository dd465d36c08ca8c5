package main

import (
	"fmt"
	"net/http"

	"golang.org/x/crypto/bcrypt"
)

type createTokenPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// createTokenHandler exchanges the admin credentials for a session token.
func (app *application) createTokenHandler(w http.ResponseWriter, r *http.Request) {
	var payload createTokenPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if payload.Username == "" || payload.Password == "" {
		app.badRequestResponse(w, r, fmt.Errorf("username and password are required"))
		return
	}

	if payload.Username != app.config.auth.admin.user {
		app.unauthorizedErrorResponse(w, r, fmt.Errorf("invalid credentials"))
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(app.config.auth.admin.passwordHash), []byte(payload.Password)); err != nil {
		app.unauthorizedErrorResponse(w, r, fmt.Errorf("invalid credentials"))
		return
	}

	token, err := app.authenticator.GenerateToken(payload.Username)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, map[string]string{"token": token}); err != nil {
		app.internalServerError(w, r, err)
	}
}
