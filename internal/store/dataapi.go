package store

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rdsdata"
	rdsdatatypes "github.com/aws/aws-sdk-go-v2/service/rdsdata/types"
	"github.com/rs/zerolog/log"

	"github.com/fpang/social-content-toolkit/internal/tools"
)

// SQL statements against the users / templates / blacklist schema.
// RecordGeneration relies on a unique index on users.name.
const (
	sqlListUsers        = `SELECT id, name, captionsGenerated, commentsGenerated, status FROM users`
	sqlListTemplates    = `SELECT id, name, prompt, category FROM templates`
	sqlListBlacklist    = `SELECT username FROM blacklist`
	sqlIsBlacklisted    = `SELECT username FROM blacklist WHERE username = :username`
	sqlPutTemplate      = `INSERT INTO templates (id, name, prompt, category) VALUES (:id, :name, :prompt, :category) ON DUPLICATE KEY UPDATE name = VALUES(name), prompt = VALUES(prompt), category = VALUES(category)`
	sqlDeleteTemplate   = `DELETE FROM templates WHERE id = :id`
	sqlAddBlacklist     = `INSERT IGNORE INTO blacklist (username) VALUES (:username)`
	sqlRemoveBlacklist  = `DELETE FROM blacklist WHERE username = :username`
	sqlSetUserStatus    = `UPDATE users SET status = :status WHERE name = :username`
	sqlRecordGeneration = `INSERT INTO users (id, name, captionsGenerated, commentsGenerated, status) VALUES (:id, :username, :captions, :comments, (SELECT IF(COUNT(*) > 0, 'Banned', 'Active') FROM blacklist WHERE username = :username)) ON DUPLICATE KEY UPDATE captionsGenerated = captionsGenerated + :captions, commentsGenerated = commentsGenerated + :comments`
)

// dataAPI is the subset of *rdsdata.Client used by DataAPIStore.
type dataAPI interface {
	ExecuteStatement(ctx context.Context, params *rdsdata.ExecuteStatementInput, optFns ...func(*rdsdata.Options)) (*rdsdata.ExecuteStatementOutput, error)
}

// DataAPIStore implements AdminStore on Aurora MySQL via the RDS Data API.
type DataAPIStore struct {
	client     dataAPI
	clusterARN string
	secretARN  string
	database   string
}

var _ AdminStore = (*DataAPIStore)(nil)

func NewDataAPIStore(client *rdsdata.Client, clusterARN, secretARN, database string) *DataAPIStore {
	return &DataAPIStore{
		client:     client,
		clusterARN: clusterARN,
		secretARN:  secretARN,
		database:   database,
	}
}

func stringParam(name, value string) rdsdatatypes.SqlParameter {
	return rdsdatatypes.SqlParameter{Name: aws.String(name), Value: &rdsdatatypes.FieldMemberStringValue{Value: value}}
}

func longParam(name string, value int64) rdsdatatypes.SqlParameter {
	return rdsdatatypes.SqlParameter{Name: aws.String(name), Value: &rdsdatatypes.FieldMemberLongValue{Value: value}}
}

func (s *DataAPIStore) exec(ctx context.Context, sql string, params []rdsdatatypes.SqlParameter) (*rdsdata.ExecuteStatementOutput, error) {
	return s.client.ExecuteStatement(ctx, &rdsdata.ExecuteStatementInput{
		ResourceArn: aws.String(s.clusterARN),
		SecretArn:   aws.String(s.secretARN),
		Database:    aws.String(s.database),
		Sql:         aws.String(sql),
		Parameters:  params,
	})
}

func fieldString(f rdsdatatypes.Field) string {
	if v, ok := f.(*rdsdatatypes.FieldMemberStringValue); ok {
		return v.Value
	}
	return ""
}

func fieldLong(f rdsdatatypes.Field) int64 {
	switch v := f.(type) {
	case *rdsdatatypes.FieldMemberLongValue:
		return v.Value
	case *rdsdatatypes.FieldMemberDoubleValue:
		return int64(v.Value)
	}
	return 0
}

func (s *DataAPIStore) ListUsers(ctx context.Context) ([]User, error) {
	result, err := s.exec(ctx, sqlListUsers, nil)
	if err != nil {
		log.Error().Err(err).Msg("ListUsers failed")
		return nil, fmt.Errorf("ListUsers: %w", err)
	}
	users := make([]User, 0, len(result.Records))
	for _, rec := range result.Records {
		if len(rec) < 5 {
			continue
		}
		users = append(users, User{
			ID:                fieldString(rec[0]),
			Name:              fieldString(rec[1]),
			CaptionsGenerated: fieldLong(rec[2]),
			CommentsGenerated: fieldLong(rec[3]),
			Status:            fieldString(rec[4]),
		})
	}
	return users, nil
}

func (s *DataAPIStore) ListTemplates(ctx context.Context) ([]Template, error) {
	result, err := s.exec(ctx, sqlListTemplates, nil)
	if err != nil {
		log.Error().Err(err).Msg("ListTemplates failed")
		return nil, fmt.Errorf("ListTemplates: %w", err)
	}
	templates := make([]Template, 0, len(result.Records))
	for _, rec := range result.Records {
		if len(rec) < 4 {
			continue
		}
		templates = append(templates, Template{
			ID:       fieldString(rec[0]),
			Name:     fieldString(rec[1]),
			Prompt:   fieldString(rec[2]),
			Category: fieldString(rec[3]),
		})
	}
	return templates, nil
}

func (s *DataAPIStore) PutTemplate(ctx context.Context, t Template) (Template, error) {
	t, err := normalizeTemplate(t)
	if err != nil {
		return t, err
	}
	params := []rdsdatatypes.SqlParameter{
		stringParam("id", t.ID),
		stringParam("name", t.Name),
		stringParam("prompt", t.Prompt),
		stringParam("category", t.Category),
	}
	if _, err := s.exec(ctx, sqlPutTemplate, params); err != nil {
		log.Error().Err(err).Str("templateId", t.ID).Msg("PutTemplate failed")
		return t, fmt.Errorf("PutTemplate: %w", err)
	}
	return t, nil
}

func (s *DataAPIStore) DeleteTemplate(ctx context.Context, id string) error {
	result, err := s.exec(ctx, sqlDeleteTemplate, []rdsdatatypes.SqlParameter{stringParam("id", id)})
	if err != nil {
		log.Error().Err(err).Str("templateId", id).Msg("DeleteTemplate failed")
		return fmt.Errorf("DeleteTemplate: %w", err)
	}
	if result.NumberOfRecordsUpdated == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *DataAPIStore) ListBlacklist(ctx context.Context) ([]string, error) {
	result, err := s.exec(ctx, sqlListBlacklist, nil)
	if err != nil {
		log.Error().Err(err).Msg("ListBlacklist failed")
		return nil, fmt.Errorf("ListBlacklist: %w", err)
	}
	names := make([]string, 0, len(result.Records))
	for _, rec := range result.Records {
		if len(rec) > 0 {
			names = append(names, fieldString(rec[0]))
		}
	}
	return names, nil
}

func (s *DataAPIStore) AddToBlacklist(ctx context.Context, username string) error {
	username, err := normalizeUsername(username)
	if err != nil {
		return err
	}
	if _, err := s.exec(ctx, sqlAddBlacklist, []rdsdatatypes.SqlParameter{stringParam("username", username)}); err != nil {
		log.Error().Err(err).Str("username", username).Msg("AddToBlacklist failed")
		return fmt.Errorf("AddToBlacklist: %w", err)
	}
	return s.setUserStatus(ctx, username, StatusBanned)
}

func (s *DataAPIStore) RemoveFromBlacklist(ctx context.Context, username string) error {
	username, err := normalizeUsername(username)
	if err != nil {
		return err
	}
	if _, err := s.exec(ctx, sqlRemoveBlacklist, []rdsdatatypes.SqlParameter{stringParam("username", username)}); err != nil {
		log.Error().Err(err).Str("username", username).Msg("RemoveFromBlacklist failed")
		return fmt.Errorf("RemoveFromBlacklist: %w", err)
	}
	return s.setUserStatus(ctx, username, StatusActive)
}

func (s *DataAPIStore) setUserStatus(ctx context.Context, username, status string) error {
	params := []rdsdatatypes.SqlParameter{stringParam("status", status), stringParam("username", username)}
	if _, err := s.exec(ctx, sqlSetUserStatus, params); err != nil {
		log.Error().Err(err).Str("username", username).Str("status", status).Msg("setUserStatus failed")
		return fmt.Errorf("setUserStatus: %w", err)
	}
	return nil
}

func (s *DataAPIStore) IsBlacklisted(ctx context.Context, username string) (bool, error) {
	username, err := normalizeUsername(username)
	if err != nil {
		return false, err
	}
	result, err := s.exec(ctx, sqlIsBlacklisted, []rdsdatatypes.SqlParameter{stringParam("username", username)})
	if err != nil {
		return false, fmt.Errorf("IsBlacklisted: %w", err)
	}
	return len(result.Records) > 0, nil
}

func (s *DataAPIStore) RecordGeneration(ctx context.Context, username string, tool tools.ID, n int) error {
	username, err := normalizeUsername(username)
	if err != nil {
		return err
	}
	captions, comments := counterDeltas(tool, n)
	params := []rdsdatatypes.SqlParameter{
		stringParam("id", newUserID()),
		stringParam("username", username),
		longParam("captions", captions),
		longParam("comments", comments),
	}
	if _, err := s.exec(ctx, sqlRecordGeneration, params); err != nil {
		log.Error().Err(err).Str("username", username).Str("tool", string(tool)).Msg("RecordGeneration failed")
		return fmt.Errorf("RecordGeneration: %w", err)
	}
	return nil
}
