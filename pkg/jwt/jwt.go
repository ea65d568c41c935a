package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims claims estándar más los datos del operador que emite el backend.
// Permisos viaja en el token para que la consola pueda razonar sin consultar al backend.
type Claims struct {
	jwt.RegisteredClaims
	Email    string   `json:"email"`
	RolID    string   `json:"rol_id"`
	Permisos []string `json:"permisos"`
}

// Datos contenido de un token nuevo.
type Datos struct {
	UserID   string
	Email    string
	RolID    string
	Permisos []string
}

// Generate genera un token JWT firmado (HS256).
func Generate(secret string, d Datos, issuer string, expMinutes int) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   d.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expMinutes) * time.Minute)),
		},
		Email:    d.Email,
		RolID:    d.RolID,
		Permisos: d.Permisos,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Parse valida firma y vigencia del token y devuelve sus claims.
func Parse(secret, tokenString string) (*Claims, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt: secret vacío")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("claims inválidos")
	}
	return claims, nil
}

// Vencimiento lee "exp" sin verificar la firma. ok=false si el token no es un JWT o no trae exp;
// los tokens opacos no vencen desde el punto de vista de la consola.
func Vencimiento(tokenString string) (exp time.Time, ok bool) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// Vencido informa si el token es un JWT con exp anterior a ahora.
func Vencido(tokenString string, ahora time.Time) bool {
	exp, ok := Vencimiento(tokenString)
	return ok && !ahora.Before(exp)
}
