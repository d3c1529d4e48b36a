package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArticleCodeUniquePerCompany(t *testing.T) {
	db := setupTestDB(t)
	company, _ := seedCompany(t, db)
	svc := NewArticleService(db)

	a, err := svc.Create(company.ID, 1, ArticleInput{Code: "CONSEIL", Description: "Prestation conseil", UnitPrice: 600, VATRate: 20})
	require.NoError(t, err)
	assert.Equal(t, 720.0, a.PriceWithVAT())

	_, err = svc.Create(company.ID, 1, ArticleInput{Code: "CONSEIL", Description: "Autre", UnitPrice: 100})
	assert.ErrorIs(t, err, ErrDuplicateCode)
}

func TestArticleSoftDeleteHidesFromList(t *testing.T) {
	db := setupTestDB(t)
	company, _ := seedCompany(t, db)
	svc := NewArticleService(db)

	a, err := svc.Create(company.ID, 1, ArticleInput{Code: "FORM", Description: "Formation", UnitPrice: 900, VATRate: 20})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(a.ID))

	list, err := svc.List(company.ID, "")
	require.NoError(t, err)
	assert.Empty(t, list)

	// The code becomes reusable after deletion.
	_, err = svc.Create(company.ID, 1, ArticleInput{Code: "FORM", Description: "Formation v2", UnitPrice: 950, VATRate: 20})
	assert.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(9999), ErrNotFound)
}

func TestArticleSearch(t *testing.T) {
	db := setupTestDB(t)
	company, _ := seedCompany(t, db)
	svc := NewArticleService(db)

	_, err := svc.Create(company.ID, 1, ArticleInput{Code: "CONSEIL", Description: "Prestation conseil", UnitPrice: 600})
	require.NoError(t, err)
	_, err = svc.Create(company.ID, 1, ArticleInput{Code: "FORM", Description: "Formation Go", UnitPrice: 900})
	require.NoError(t, err)

	list, err := svc.List(company.ID, "conseil")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "CONSEIL", list[0].Code)
}
