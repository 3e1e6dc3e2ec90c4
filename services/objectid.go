package services

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/akinalp/gunce/pkg"
)

// parseObjectID, URL'den veya request body'den gelen hex string'i
// ObjectID'ye çevirir. Geçersiz format (yanlış uzunluk, hex olmayan
// karakter) ErrBadRequest'e map edilir — handler 400 döner, 500 değil.
//
// what parametresi hata mesajına girer: "invalid post id" gibi.
func parseObjectID(hex, what string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: invalid %s id", pkg.ErrBadRequest, what)
	}
	return id, nil
}
