package smscontent

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simp-lee/coconsole/internal/domain"
	"github.com/simp-lee/coconsole/internal/testutil"
)

func newTestService(t *testing.T) domain.SMSContentService {
	t.Helper()
	return NewSMSContentService(NewSMSContentRepository(testutil.NewSQLiteDB(t, &domain.SMSContent{})))
}

func TestCreateSMSContent_Validation(t *testing.T) {
	tests := []struct {
		name    string
		in      domain.SMSContentInput
		wantErr string
	}{
		{"missing code", domain.SMSContentInput{Title: "t", Body: "b", Language: "en"}, "code is required"},
		{"bad code", domain.SMSContentInput{Code: "1abc", Title: "t", Body: "b", Language: "en"}, "code must be upper case letters, digits and underscores"},
		{"long body", domain.SMSContentInput{Code: "A", Title: "t", Body: strings.Repeat("x", 481), Language: "en"}, "body must be at most 480 characters"},
		{"bad language", domain.SMSContentInput{Code: "A", Title: "t", Body: "b", Language: "fr"}, "language must be one of: en, id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newTestService(t).CreateSMSContent(context.Background(), tt.in)
			require.Error(t, err)
			assert.True(t, domain.IsValidation(err))
			assert.Equal(t, tt.wantErr, err.Error())
		})
	}
}

func TestCreateSMSContent_Normalizes(t *testing.T) {
	sms, err := newTestService(t).CreateSMSContent(context.Background(), domain.SMSContentInput{
		Code: " otp_login ", Title: " Login ", Body: strings.Repeat("x", 480), Language: "EN",
	})
	require.NoError(t, err)
	assert.Equal(t, "OTP_LOGIN", sms.Code)
	assert.Equal(t, "Login", sms.Title)
	assert.Equal(t, "en", sms.Language)
	assert.False(t, sms.Active, "new contents start inactive")
}

func TestSetSMSContentActive(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	sms, err := svc.CreateSMSContent(ctx, domain.SMSContentInput{Code: "OTP", Title: "OTP", Body: "code", Language: "en"})
	require.NoError(t, err)

	_, err = svc.SetSMSContentActive(ctx, sms.ID, false)
	assert.True(t, domain.IsConflict(err))

	got, err := svc.SetSMSContentActive(ctx, sms.ID, true)
	require.NoError(t, err)
	assert.True(t, got.Active)

	err = svc.DeleteSMSContent(ctx, sms.ID)
	assert.True(t, domain.IsConflict(err), "active content cannot be deleted")

	_, err = svc.SetSMSContentActive(ctx, sms.ID, false)
	require.NoError(t, err)
	assert.NoError(t, svc.DeleteSMSContent(ctx, sms.ID))
}

func TestFormSchema(t *testing.T) {
	s := formSchema(nil)

	assert.Nil(t, s.Validate(SMSContentRequest{Code: "otp", Title: "OTP", Body: "code", Language: "id"}))

	errs := s.Validate(SMSContentRequest{Code: "9x", Title: "", Body: strings.Repeat("x", 481), Language: "fr"})
	assert.Equal(t, "Use letters, digits and underscores, starting with a letter", errs["code"])
	assert.Equal(t, "This field is required", errs["title"])
	assert.Equal(t, "Must be at most 480 characters", errs["body"])
	assert.Equal(t, "Must be one of: en, id", errs["language"])
}
