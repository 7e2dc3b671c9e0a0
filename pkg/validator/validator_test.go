package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type createReviewRequest struct {
	Rating  int    `validate:"required,gte=1,lte=5"`
	Content string `validate:"required,max=500"`
}

type coordRequest struct {
	Latitude  float64 `validate:"latitude"`
	Longitude float64 `validate:"longitude"`
}

func TestValidateOK(t *testing.T) {
	assert.NoError(t, Validate(createReviewRequest{Rating: 4, Content: "good air, good noodles"}))
}

func TestValidateRatingRange(t *testing.T) {
	err := Validate(createReviewRequest{Rating: 6, Content: "x"})
	require.Error(t, err)

	valErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Contains(t, valErr.Fields()["Rating"], "less than or equal to 5")
}

func TestValidateRequiredField(t *testing.T) {
	err := Validate(createReviewRequest{Rating: 3})
	require.Error(t, err)

	valErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Equal(t, "is required", valErr.Fields()["Content"])
}

func TestValidateCoordinates(t *testing.T) {
	assert.NoError(t, Validate(coordRequest{Latitude: 18.7883, Longitude: 98.9853}))

	err := Validate(coordRequest{Latitude: 200, Longitude: 98.9})
	require.Error(t, err)

	valErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Equal(t, "must be a valid latitude", valErr.Fields()["Latitude"])
}

func TestValidationErrorMessageJoinsFields(t *testing.T) {
	err := Validate(createReviewRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Rating")
	assert.Contains(t, err.Error(), "Content")
}
