package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"compassai/internal/app/discovery"
	"compassai/internal/app/moderation"
	"compassai/internal/domain"
	"compassai/internal/infra/jsoncodec"
)

var (
	successColor = color.New(color.FgGreen, color.Bold)
	failureColor = color.New(color.FgRed, color.Bold)
	mutedColor   = color.New(color.Faint)
)

func writeJSON(w io.Writer, value any) error {
	data, err := jsoncodec.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func printSuccess(w io.Writer, message string) {
	successColor.Fprintln(w, "✓ "+message)
}

func printFailure(w io.Writer, exitErr exitError) {
	if exitErr.message != "" {
		failureColor.Fprintln(w, "✗ "+exitErr.message)
	}
	for _, field := range exitErr.fields.Fields() {
		if field == domain.RootField {
			continue
		}
		fmt.Fprintf(w, "  %s: %s\n", field, exitErr.fields[field])
	}
}

func printMessage(w io.Writer, message string, jsonOutput bool) error {
	if jsonOutput {
		return writeJSON(w, map[string]any{"message": message})
	}
	printSuccess(w, message)
	return nil
}

func printSnapshot(w io.Writer, snap discovery.Snapshot, jsonOutput bool) error {
	if jsonOutput {
		return writeJSON(w, map[string]any{
			"items":         snap.Items,
			"page":          snap.Page,
			"totalElements": snap.TotalElements,
			"totalPages":    snap.TotalPages,
		})
	}
	if message := snap.EmptyMessage(); message != "" {
		fmt.Fprintln(w, message)
		return nil
	}
	for _, tool := range snap.Items {
		fmt.Fprintf(w, "%s\t%s\t%s\n", tool.ID, tool.Name, strings.Join(tool.AllCategories(), ", "))
	}
	mutedColor.Fprintf(w, "총 %s개 (%d/%d 페이지)\n", humanize.Comma(snap.TotalElements), snap.Page+1, max(snap.TotalPages, 1))
	return nil
}

func printToolList(w io.Writer, tools []domain.Tool, jsonOutput bool) error {
	if jsonOutput {
		return writeJSON(w, map[string]any{"items": tools})
	}
	for _, tool := range tools {
		fmt.Fprintf(w, "%s\t%s\n", tool.ID, tool.Name)
	}
	mutedColor.Fprintf(w, "총 %s개\n", humanize.Comma(int64(len(tools))))
	return nil
}

func printTool(w io.Writer, tool domain.Tool, like *domain.LikeStatus, jsonOutput bool) error {
	if jsonOutput {
		payload := map[string]any{"tool": tool}
		if like != nil {
			payload["like"] = like
		}
		return writeJSON(w, payload)
	}
	fmt.Fprintf(w, "%s (%s)\n", tool.Name, tool.ID)
	if tool.SubTitle != "" {
		fmt.Fprintln(w, tool.SubTitle)
	}
	if categories := tool.AllCategories(); len(categories) > 0 {
		fmt.Fprintf(w, "카테고리: %s\n", strings.Join(categories, ", "))
	}
	if tool.Origin != "" {
		fmt.Fprintf(w, "서비스 지역: %s\n", tool.Origin)
	}
	if tool.URL != "" {
		fmt.Fprintf(w, "웹사이트: %s\n", tool.URL)
	}
	if len(tool.Tags) > 0 {
		fmt.Fprintf(w, "태그: %s\n", strings.Join(tool.Tags, ", "))
	}
	if like != nil {
		printLike(w, *like)
	}
	if tool.Long != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, tool.Long)
	}
	return nil
}

func printLike(w io.Writer, status domain.LikeStatus) {
	mark := "♡"
	if status.Liked {
		mark = "♥"
	}
	fmt.Fprintf(w, "%s 좋아요 %s\n", mark, humanize.Comma(status.LikeCount))
}

func printUser(w io.Writer, user *domain.Me, jsonOutput bool) error {
	if jsonOutput {
		return writeJSON(w, map[string]any{"user": user})
	}
	role := "일반 회원"
	if user.IsAdmin() {
		role = "관리자"
	}
	fmt.Fprintf(w, "%s <%s> %s\n", user.Name, user.Email, mutedColor.Sprint(role))
	return nil
}

func statusLabel(status domain.ApplicationStatus) string {
	for _, tab := range moderation.Tabs() {
		if string(tab.Key) == string(status) {
			return tab.Label
		}
	}
	return string(status)
}

func printApplications(w io.Writer, apps []domain.Application, now time.Time) {
	if len(apps) == 0 {
		fmt.Fprintln(w, "신청 내역이 없습니다.")
		return
	}
	for _, application := range apps {
		applied := application.AppliedAt.Display()
		if !application.AppliedAt.IsZero() {
			applied += " (" + humanize.RelTime(application.AppliedAt.Time, now, "전", "후") + ")"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", application.ID, statusLabel(application.Status), application.Name, application.Applicant.Name, applied)
		if application.Status == domain.StatusRejected && application.RejectReason != "" {
			mutedColor.Fprintf(w, "\t거절 사유: %s\n", application.RejectReason)
		}
	}
}
