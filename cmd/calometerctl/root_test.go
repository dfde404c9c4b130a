package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestRootHelp(t *testing.T) {
	out, err := run(t, "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "migrate")
	assert.Contains(t, out, "calc")
}

func TestCalcBMI(t *testing.T) {
	out, err := run(t, "calc", "bmi", "--height", "175", "--weight", "70", "--gender", "male", "--age", "30")
	require.NoError(t, err)
	assert.Contains(t, out, "BMI: 22.86")
	assert.Contains(t, out, "Normal weight")
	assert.Contains(t, out, "Advice: Your weight is ideal")
}

func TestCalcCalories(t *testing.T) {
	out, err := run(t, "calc", "calories",
		"--height", "175", "--weight", "70", "--gender", "male", "--age", "30",
		"--activity", "moderately_active")
	require.NoError(t, err)
	assert.Contains(t, out, "BMR: 1695.67 kcal")
	assert.Contains(t, out, "Moderately Active")
	assert.Contains(t, out, "Suggested water: 2500 ml")
}

func TestCalcRejectsInvalidInput(t *testing.T) {
	_, err := run(t, "calc", "calories",
		"--height", "175", "--weight", "70", "--gender", "male", "--age", "30",
		"--activity", "couch")
	assert.Error(t, err)
}
