// Package handlers expone la superficie HTTP sobre gin. Los handlers son
// structs con sus dependencias inyectadas, de modo que los tests los arman
// sobre stores en memoria sin tocar Scylla ni Redis.
package handlers

import (
	"log"

	"github.com/gin-gonic/gin"

	"hacienda_backend/internal/apperr"
)

// fail traduce un error del dominio a la respuesta JSON uniforme
// {"success": false, "error": ...}. Los conflictos de stock agregan el
// disponible para que el front ajuste la cantidad.
func fail(c *gin.Context, err error) {
	e := apperr.As(err)

	if e.Kind == apperr.KindInternal {
		log.Printf("🚨 %v", err)
	}

	body := gin.H{"success": false, "error": e.Message}
	if e.Available != nil {
		body["disponible"] = *e.Available
	}
	c.JSON(e.HTTPStatus(), body)
}
