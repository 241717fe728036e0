package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/tuanvumaihuynh/catalog-service/internal/apperr"
	"github.com/tuanvumaihuynh/catalog-service/internal/repository"
	"github.com/tuanvumaihuynh/catalog-service/pkg/outbox"
	"github.com/tuanvumaihuynh/catalog-service/pkg/ptr"
	pkgvalidator "github.com/tuanvumaihuynh/catalog-service/pkg/validator"
	"github.com/tuanvumaihuynh/catalog-service/pkg/zerror"
)

// validate runs struct validation and reports every failing field in one
// validation error. The validator errors stay attached as the parent.
func validate(v pkgvalidator.Validator, req any) error {
	err := v.Validate(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate request: %w", err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, pkgvalidator.FieldErrorMessage(fe))
	}

	return apperr.Validation(strings.Join(msgs, "; ")).WrapParent(verrs)
}

// storageErr keeps catalog errors as they are and turns anything else into a
// storage failure with the given summary.
func storageErr(err error, msg string) error {
	var zErr zerror.ZError
	if errors.As(err, &zErr) {
		return zErr
	}
	return apperr.Storage(msg, err)
}

// publish stores ev in the outbox within the caller's transaction.
func publish(ctx context.Context, repo repository.OutboxMsgRepository, topic string, key int64, ev any) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", topic, err)
	}

	if err := repo.CreateOutboxMsg(ctx, repository.CreateOutboxMsgParams{
		Topic:        topic,
		Headers:      outbox.BuildHeaders(ctx),
		Payload:      payload,
		PartitionKey: ptr.New(strconv.FormatInt(key, 10)),
	}); err != nil {
		return fmt.Errorf("create %s outbox msg: %w", topic, err)
	}

	return nil
}
