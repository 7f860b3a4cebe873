// Package severity classifies complaint text into a severity tier, a 1-10
// score and an SLA estimate. It combines a keyword rule matcher with a
// TF-IDF weighted multinomial naive Bayes model and fuses their outputs.
package severity
