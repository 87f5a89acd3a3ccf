package handler

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"

	"wordfeed/internal/domain"
)

// maxUploadSize is the largest workbook accepted from chat
const maxUploadSize = 10 << 20

const textAdminHelp = "🔑 Admin mode.\n\n" +
	"Send an .xlsx file to import words (columns: term, meaning, note, day, category).\n" +
	"Caption \"replace\" drops every stored word first and resets everyone's progress.\n" +
	"Caption \"quiz <version>\" imports a question set (sheet 1: question, etc; sheet \"answers\": question_no, answer, correctYn, etc)."

// uploadRequest is what an admin asked for in the document caption
type uploadRequest struct {
	quizVersion string
	mode        domain.ImportMode
}

func parseCaption(caption string) (uploadRequest, error) {
	fields := strings.Fields(caption)
	if len(fields) == 0 {
		return uploadRequest{mode: domain.ImportAppend}, nil
	}

	switch strings.ToLower(fields[0]) {
	case "append":
		return uploadRequest{mode: domain.ImportAppend}, nil
	case "replace":
		return uploadRequest{mode: domain.ImportReplace}, nil
	case "quiz":
		if len(fields) < 2 {
			return uploadRequest{}, domain.ErrEmptyVersion
		}
		return uploadRequest{quizVersion: strings.Join(fields[1:], " ")}, nil
	}
	return uploadRequest{}, fmt.Errorf("unknown caption %q", fields[0])
}

// handleDocument imports an uploaded workbook. Only admins get here.
func (h *Handler) handleDocument(c tele.Context) error {
	userID := c.Sender().ID
	msg := c.Message()
	if msg == nil || msg.Document == nil {
		return nil
	}
	doc := msg.Document

	if !strings.EqualFold(filepath.Ext(doc.FileName), ".xlsx") {
		return c.Send("Please send an .xlsx workbook.")
	}
	if doc.FileSize > maxUploadSize {
		return c.Send("The file is too large.")
	}

	req, err := parseCaption(msg.Caption)
	if err != nil {
		return c.Send("Unknown caption. " + textAdminHelp)
	}

	body, err := h.files.File(&doc.File)
	if err != nil {
		h.logger.Error("Failed to download document", zap.Error(err))
		return c.Send("Could not download the file.")
	}
	defer body.Close()

	ctx, cancel := requestContext()
	defer cancel()

	if req.quizVersion != "" {
		n, err := h.svc.Import.ImportQuestions(ctx, body, req.quizVersion)
		if err != nil {
			h.logger.Error("Failed to import questions", zap.String("version", req.quizVersion), zap.Error(err))
			return c.Send("Import failed: " + err.Error())
		}
		h.logger.Info("Questions imported",
			zap.Int64("user_id", userID),
			zap.String("version", req.quizVersion),
			zap.Int("questions", n),
		)
		return c.Send(fmt.Sprintf("✅ Quiz %q saved with %d questions.", req.quizVersion, n))
	}

	result, err := h.svc.Import.ImportWords(ctx, body, req.mode)
	if errors.Is(err, domain.ErrNoNewWords) {
		return c.Send("Nothing new: every term is already stored.")
	}
	if err != nil {
		h.logger.Error("Failed to import words", zap.String("mode", string(req.mode)), zap.Error(err))
		if result != nil {
			return c.Send("Import incomplete: " + result.Summary() + "\n" + err.Error())
		}
		return c.Send("Import failed: " + err.Error())
	}

	// rebuild the importer's own feed so the new words show up
	h.svc.Sessions.Delete(ownerKey(userID))

	h.logger.Info("Words imported",
		zap.Int64("user_id", userID),
		zap.String("mode", string(result.Mode)),
		zap.Int("inserted", result.Inserted),
	)
	return c.Send(importReport(result), mainMenuMarkup())
}

func importReport(r *domain.ImportResult) string {
	var b strings.Builder
	b.WriteString("✅ " + r.Summary())
	if r.Mode == domain.ImportReplace {
		b.WriteString("\nEveryone's progress was reset.")
	}
	const maxErrors = 10
	for i, e := range r.Errors {
		if i == maxErrors {
			fmt.Fprintf(&b, "\n…and %d more problems", len(r.Errors)-maxErrors)
			break
		}
		b.WriteString("\n⚠️ " + e)
	}
	return b.String()
}
