package model

// Classification metrics over integer labels. The binary helpers
// assume the 0/1 encoding the cleaner produces.

// Accuracy is the fraction of matching positions in yTrue and yPred.
func Accuracy(yTrue, yPred []int) float64 {
	if len(yTrue) == 0 {
		return 0
	}
	c := 0
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			c++
		}
	}
	return float64(c) / float64(len(yTrue))
}

// Confusion holds binary confusion counts with 1 as the positive class.
type Confusion struct {
	TP, FP, TN, FN int
}

// Confuse tallies binary confusion counts.
func Confuse(yTrue, yPred []int) Confusion {
	var c Confusion
	for i := range yTrue {
		switch {
		case yPred[i] == 1 && yTrue[i] == 1:
			c.TP++
		case yPred[i] == 1 && yTrue[i] == 0:
			c.FP++
		case yPred[i] == 0 && yTrue[i] == 0:
			c.TN++
		default:
			c.FN++
		}
	}
	return c
}

// PrecisionRecallF1 derives the three rates from binary predictions.
// Undefined ratios (empty denominators) come back as 0.
func PrecisionRecallF1(yTrue, yPred []int) (prec, rec, f1 float64) {
	c := Confuse(yTrue, yPred)
	if c.TP+c.FP > 0 {
		prec = float64(c.TP) / float64(c.TP+c.FP)
	}
	if c.TP+c.FN > 0 {
		rec = float64(c.TP) / float64(c.TP+c.FN)
	}
	if prec+rec > 0 {
		f1 = 2 * prec * rec / (prec + rec)
	}
	return
}
