package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config agrupa la configuración leída del entorno. Las URLs de retorno de
// los proveedores de pago viven acá y se pasan explícitamente a la
// iniciación del pago, nunca como estado global mutable.
type Config struct {
	Port      string
	JWTSecret string

	SMTPHost     string
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string

	WebpayReturnURL      string
	MercadoPagoNotifyURL string
	MercadoPagoBackURL   string
}

var current *Config

// Load carga el archivo .env y arma la configuración tipada.
func Load() *Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  Sin archivo .env, se usan las variables de entorno del sistema")
	} else {
		log.Println("✅ Archivo .env cargado")
	}

	current = &Config{
		Port:                 getEnv("PORT", "8080"),
		JWTSecret:            os.Getenv("JWT_SECRET"),
		SMTPHost:             os.Getenv("SMTP_HOST"),
		SMTPUsername:         os.Getenv("SMTP_USERNAME"),
		SMTPPassword:         os.Getenv("SMTP_PASSWORD"),
		SMTPFrom:             getEnv("SMTP_FROM", "no-reply@haciendacantabria.cl"),
		WebpayReturnURL:      os.Getenv("WEBPAY_RETURN_URL"),
		MercadoPagoNotifyURL: os.Getenv("MERCADOPAGO_NOTIFY_URL"),
		MercadoPagoBackURL:   os.Getenv("MERCADOPAGO_BACK_URL"),
	}
	return current
}

// Get retorna la configuración cargada, cargándola si hace falta.
func Get() *Config {
	if current == nil {
		return Load()
	}
	return current
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
