package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"rollcall/internal/application/orchestrators"
	"rollcall/internal/application/projections"
	"rollcall/internal/application/session"
	"rollcall/internal/domain/attendance"
	"rollcall/internal/domain/export"
)

// internalError logs the real error and returns a generic message to the client.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// wantsJSON reports whether the client asked for the JSON view instead of a redirect.
func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json") ||
		strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
}

// readFields returns the submitted fields from a form or a flat JSON object.
// JSON numbers and booleans are returned in their literal form.
func readFields(r *http.Request) (map[string]string, error) {
	fields := make(map[string]string)
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var raw map[string]json.RawMessage
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
		for k, v := range raw {
			var s string
			if err := json.Unmarshal(v, &s); err == nil {
				fields[k] = s
				continue
			}
			fields[k] = string(v)
		}
		return fields, nil
	}
	if err := r.ParseForm(); err != nil {
		return nil, err
	}
	for k := range r.Form {
		fields[k] = r.Form.Get(k)
	}
	return fields, nil
}

// withFields checks the method, parses the body, and runs fn under the session lock.
// fn returns an HTTP status to abort with, or 0 to answer with the view.
func (s *Server) withFields(w http.ResponseWriter, r *http.Request, fn func(f map[string]string) (int, string)) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	f, err := readFields(r)
	if err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	code, msg := fn(f)
	s.mu.Unlock()

	if code != 0 {
		http.Error(w, msg, code)
		return
	}
	s.respond(w, r, http.StatusOK)
}

// respond redirects browsers back to the screen and hands JSON clients the view.
func (s *Server) respond(w http.ResponseWriter, r *http.Request, status int) {
	if !wantsJSON(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	v := s.snapshot()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// snapshot renders the current view under the session lock.
func (s *Server) snapshot() projections.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return projections.RenderView(s.state, s.opts.Now())
}

func parseRoll(f map[string]string) (int, bool) {
	roll, err := strconv.Atoi(strings.TrimSpace(f["roll"]))
	return roll, err == nil
}

// handleIndex handles GET / (the attendance screen).
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	renderTemplate(w, r, s.pages.index, pageData{Title: "Attendance", View: s.snapshot()})
}

// handleView handles GET /api/view.
func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.snapshot())
}

// handleToggle handles POST /students/toggle.
func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	s.withFields(w, r, func(f map[string]string) (int, string) {
		roll, ok := parseRoll(f)
		if !ok {
			return http.StatusBadRequest, "roll is required"
		}
		if _, err := s.state.Toggle(roll); err != nil {
			return http.StatusNotFound, "unknown roll"
		}
		return 0, ""
	})
}

// handleMark handles POST /students/mark (the swipe gesture).
func (s *Server) handleMark(w http.ResponseWriter, r *http.Request) {
	s.withFields(w, r, func(f map[string]string) (int, string) {
		roll, ok := parseRoll(f)
		if !ok {
			return http.StatusBadRequest, "roll is required"
		}
		status, err := attendance.ParseStatus(f["status"])
		if err != nil {
			return http.StatusBadRequest, "status must be Present or Absent"
		}
		if !s.state.Roster.Contains(roll) {
			return http.StatusNotFound, "unknown roll"
		}
		s.state.Mark(roll, status)
		return 0, ""
	})
}

// handleMarkAll handles POST /attendance/all.
func (s *Server) handleMarkAll(w http.ResponseWriter, r *http.Request) {
	s.withFields(w, r, func(f map[string]string) (int, string) {
		status, err := attendance.ParseStatus(f["status"])
		if err != nil {
			return http.StatusBadRequest, "status must be Present or Absent"
		}
		s.state.SetAll(status, s.opts.Now())
		return 0, ""
	})
}

// handleInvert handles POST /attendance/invert.
func (s *Server) handleInvert(w http.ResponseWriter, r *http.Request) {
	s.withFields(w, r, func(map[string]string) (int, string) {
		s.state.Invert(s.opts.Now())
		return 0, ""
	})
}

// handleSave handles POST /attendance/save.
// A storage failure leaves the map untouched and shows an error notice.
func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	s.withFields(w, r, func(map[string]string) (int, string) {
		err := orchestrators.ExecuteSaveAttendance(ctx, orchestrators.SaveAttendanceInput{
			Date:       s.state.Date,
			Roster:     s.state.Roster,
			Attendance: s.state.Attendance,
		}, orchestrators.SaveAttendanceDeps{AttendanceStore: s.stores.AttendanceStore})
		if err != nil {
			slog.Error("attendance_event", "event", "attendance_save_failed", "date", s.state.Date, "error", err)
			s.state.Notify(session.MsgSaveFailed, session.NoticeError, s.opts.Now())
			return 0, ""
		}
		s.state.Notify(session.MsgSaved, session.NoticeOK, s.opts.Now())
		s.refreshSavedDates(ctx)
		return 0, ""
	})
}

// handleDate handles POST /attendance/date.
// Unsaved changes to the previous date are discarded.
func (s *Server) handleDate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	s.withFields(w, r, func(f map[string]string) (int, string) {
		date, err := attendance.ParseDate(strings.TrimSpace(f["date"]))
		if err != nil {
			s.state.Notify(session.MsgInvalidDate, session.NoticeError, s.opts.Now())
			return 0, ""
		}
		m, err := orchestrators.ExecuteLoadAttendance(ctx, orchestrators.LoadAttendanceInput{Date: date, Roster: s.state.Roster},
			orchestrators.LoadAttendanceDeps{AttendanceStore: s.stores.AttendanceStore})
		s.state.LoadDate(date, m)
		if err != nil {
			s.state.Notify(session.MsgLoadFailed, session.NoticeError, s.opts.Now())
		}
		return 0, ""
	})
}

// handleMeta handles POST /attendance/meta (section and subject labels).
func (s *Server) handleMeta(w http.ResponseWriter, r *http.Request) {
	s.withFields(w, r, func(f map[string]string) (int, string) {
		s.state.SetMeta(f["section"], f["subject"])
		return 0, ""
	})
}

// handleSearch handles POST /search. Every submission resets the page.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	s.withFields(w, r, func(f map[string]string) (int, string) {
		s.state.ApplyFilter(f["q"])
		return 0, ""
	})
}

// handlePage handles POST /page with dir=-1|1, or page=<1-based number>.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	s.withFields(w, r, func(f map[string]string) (int, string) {
		if p, ok := f["page"]; ok && p != "" {
			n, err := strconv.Atoi(p)
			if err != nil {
				return http.StatusBadRequest, "page must be a number"
			}
			s.state.GoToPage(n - 1)
			return 0, ""
		}
		dir, err := strconv.Atoi(f["dir"])
		if err != nil || (dir != -1 && dir != 1) {
			return http.StatusBadRequest, "dir must be -1 or 1"
		}
		s.state.ChangePage(dir)
		return 0, ""
	})
}

// handleJump handles POST /jump.
func (s *Server) handleJump(w http.ResponseWriter, r *http.Request) {
	s.withFields(w, r, func(f map[string]string) (int, string) {
		s.state.JumpTo(f["roll"], s.opts.Now())
		return 0, ""
	})
}

// handleThemeToggle handles POST /theme/toggle.
func (s *Server) handleThemeToggle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	s.withFields(w, r, func(map[string]string) (int, string) {
		next, err := orchestrators.ExecuteToggleTheme(ctx, orchestrators.ToggleThemeInput{Current: s.state.Theme},
			orchestrators.ThemeDeps{ThemeStore: s.stores.ThemeStore})
		if err != nil {
			slog.Warn("theme_event", "event", "theme_save_failed", "error", err)
		}
		s.state.Theme = next
		return 0, ""
	})
}

// handleExport handles GET /export?format=csv|pdf|xlsx.
// The file is rendered completely before the first byte is written.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	format := r.URL.Query().Get("format")

	s.mu.Lock()
	sheet := projections.BuildSheet(s.state)
	s.mu.Unlock()

	result, err := orchestrators.ExecuteExportAttendance(r.Context(), orchestrators.ExportAttendanceInput{
		Format: format,
		Sheet:  sheet,
	}, orchestrators.ExportAttendanceDeps{Writers: s.opts.Writers, Now: s.opts.Now})
	if errors.Is(err, export.ErrFormatUnavailable) {
		s.mu.Lock()
		s.state.Notify(orchestrators.UnavailableMessage(format), session.NoticeError, s.opts.Now())
		s.mu.Unlock()
		s.respond(w, r, http.StatusNotFound)
		return
	}
	if err != nil {
		internalError(w, err)
		return
	}

	w.Header().Set("Content-Type", result.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(result.Body)))
	w.Write(result.Body)
}

// handleHelp handles GET /help.
func (s *Server) handleHelp(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	renderTemplate(w, r, s.pages.help, pageData{Title: "Help", View: s.snapshot(), Help: s.pages.guide})
}

// handleHealthz handles GET /healthz.
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if s.opts.Health != nil {
		if err := s.opts.Health(r.Context()); err != nil {
			slog.Error("health_check_failed", "error", err)
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]string{"status": "unavailable"})
			return
		}
	}
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
