package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAccuracy(t *testing.T) {
	assert.Equal(t, 0.75, Accuracy([]int{1, 0, 1, 1}, []int{1, 0, 0, 1}))
	assert.Equal(t, 0.0, Accuracy(nil, nil))
}

func TestConfuse(t *testing.T) {
	yTrue := []int{1, 1, 0, 0, 1, 0}
	yPred := []int{1, 0, 0, 1, 1, 0}
	c := Confuse(yTrue, yPred)
	assert.Equal(t, Confusion{TP: 2, FP: 1, TN: 2, FN: 1}, c)
}

func TestPrecisionRecallF1(t *testing.T) {
	yTrue := []int{1, 1, 0, 0, 1, 0}
	yPred := []int{1, 0, 0, 1, 1, 0}
	prec, rec, f1 := PrecisionRecallF1(yTrue, yPred)
	assert.InDelta(t, 2.0/3.0, prec, 1e-9)
	assert.InDelta(t, 2.0/3.0, rec, 1e-9)
	assert.InDelta(t, 2.0/3.0, f1, 1e-9)
}

func TestPrecisionRecallF1Degenerate(t *testing.T) {
	// No positive predictions and no positive truths: all rates are 0,
	// not NaN.
	prec, rec, f1 := PrecisionRecallF1([]int{0, 0}, []int{0, 0})
	assert.Zero(t, prec)
	assert.Zero(t, rec)
	assert.Zero(t, f1)
}
