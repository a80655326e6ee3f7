// examctl is the invigilator's command-line dashboard: create exam
// sessions, fetch their entry/exit QR codes, and list what exists.
package main

import (
	"encoding/base64"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"queon/internal/models"
)

// Default server base URL; override with QUEON_SERVER env var or --server flag.
var serverBaseURL = "http://localhost:4000"

func main() {
	cmd := flag.String("cmd", "list", "Command: create|qr|list")
	name := flag.String("name", "", "Exam name (for create)")
	room := flag.String("room", "", "Room (optional, for create)")
	duration := flag.Int("duration", 0, "Duration in minutes (for create)")
	examID := flag.String("id", "", "Exam ID (for qr)")
	outDir := flag.String("out", ".", "Directory for saved QR images (for qr)")
	serverFlag := flag.String("server", "", "Override server base URL")
	flag.Parse()

	if env := os.Getenv("QUEON_SERVER"); env != "" {
		serverBaseURL = strings.TrimRight(env, "/")
	}
	if *serverFlag != "" {
		serverBaseURL = strings.TrimRight(*serverFlag, "/")
	}

	var err error
	switch *cmd {
	case "create":
		err = createExam(*name, *room, *duration)
	case "qr":
		if *examID == "" {
			fmt.Println("--id required")
			os.Exit(1)
		}
		err = fetchQrs(*examID, *outDir)
	case "list":
		err = listExams()
	default:
		fmt.Println("Unknown command")
		os.Exit(1)
	}
	if err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
}

func createExam(name, room string, duration int) error {
	if name == "" || duration <= 0 {
		return fmt.Errorf("--name and a positive --duration are required")
	}
	req := models.CreateExamRequest{ExamName: name, DurationMinutes: duration}
	if room != "" {
		req.Room = &room
	}

	body, status, err := postJSON(serverBaseURL+"/api/exams", req)
	if err != nil {
		return fmt.Errorf("post create: %w", err)
	}
	if status != http.StatusCreated {
		return fmt.Errorf("server returned status %d: %s", status, string(body))
	}

	var exam models.ExamSession
	if err := json.Unmarshal(body, &exam); err != nil {
		return fmt.Errorf("decode server response: %w", err)
	}
	fmt.Println("Exam created:", exam.ID)
	fmt.Println("  entry token:", exam.EntryToken)
	fmt.Println("  exit token: ", exam.ExitToken)
	fmt.Printf("Fetch QR codes with: examctl -cmd qr -id %s\n", exam.ID)
	return nil
}

func fetchQrs(examID, outDir string) error {
	for _, kind := range []string{"entry", "exit"} {
		resp, err := http.Get(fmt.Sprintf("%s/api/exams/%s/qr/%s", serverBaseURL, examID, kind))
		if err != nil {
			return err
		}
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("status %d: %s", resp.StatusCode, string(body))
		}

		var qr models.QrResponse
		if err := json.Unmarshal(body, &qr); err != nil {
			return fmt.Errorf("decode qr response: %w", err)
		}

		path, err := saveDataURL(qr.QrDataURL, outDir, examID+"-"+kind+".png")
		if err != nil {
			return err
		}
		raw, _ := json.Marshal(qr.RawPayload)
		fmt.Printf("%s QR saved to %s\n  payload: %s\n", strings.ToUpper(kind), path, raw)
	}
	return nil
}

// saveDataURL decodes a "data:image/png;base64,..." string to a file.
func saveDataURL(dataURL, dir, name string) (string, error) {
	idx := strings.Index(dataURL, ",")
	if idx < 0 {
		return "", fmt.Errorf("malformed data URL")
	}
	png, err := base64.StdEncoding.DecodeString(dataURL[idx+1:])
	if err != nil {
		return "", fmt.Errorf("decode data URL: %w", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, png, 0644); err != nil {
		return "", err
	}
	return path, nil
}

func listExams() error {
	resp, err := http.Get(serverBaseURL + "/api/exams")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d: %s", resp.StatusCode, string(body))
	}

	var sessions []models.ExamSummary
	if err := json.Unmarshal(body, &sessions); err != nil {
		return fmt.Errorf("decode server response: %w", err)
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"ID", "Exam", "Room", "Minutes", "Active", "Created By"})
	for _, s := range sessions {
		room := ""
		if s.Room != nil {
			room = *s.Room
		}
		table.Append([]string{
			s.ID, s.ExamName, room,
			strconv.Itoa(s.DurationMinutes),
			strconv.FormatBool(s.IsActive),
			s.CreatedByID,
		})
	}
	table.Render()
	return nil
}

func postJSON(url string, payload any) ([]byte, int, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, 0, err
	}
	resp, err := http.Post(url, "application/json", strings.NewReader(string(data)))
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return b, resp.StatusCode, nil
}
