package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/kapu/mathsprint-site-go/internal/constants"
	"github.com/kapu/mathsprint-site-go/internal/domain"
	"github.com/kapu/mathsprint-site-go/internal/game"
)

func main() {
	serverURL := flag.String("server", "", "API server base URL (e.g. http://localhost:8080); score upload disabled when empty")
	token := flag.String("token", "", "session token for score upload")
	flag.Parse()

	engine := game.NewEngine(nil)
	snap := engine.Start()

	fmt.Printf("Math Sprint! Answer as many as you can in %d seconds.\n", int(constants.GameRules.RoundDuration.Seconds()))
	fmt.Printf("\n[%3ds | score %d | lv %d] %s = ", int(snap.TimeRemaining.Seconds()), snap.Score, snap.Level, snap.Question.Prompt())

	lines := make(chan string)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	started := time.Now()
	for snap.State == game.StateRunning {
		select {
		case <-ticker.C:
			snap = engine.Tick(time.Second)
		case line, ok := <-lines:
			if !ok {
				// stdin 종료: 남은 시간을 소진시켜 라운드를 닫는다.
				snap = engine.Tick(snap.TimeRemaining)
				continue
			}
			answer, err := strconv.Atoi(strings.TrimSpace(line))
			if err != nil {
				fmt.Printf("numbers only. %s = ", snap.Question.Prompt())
				continue
			}
			correct, next := engine.SubmitAnswer(answer)
			snap = next
			if correct {
				fmt.Print("correct!")
			} else {
				fmt.Print("wrong.")
			}
			if snap.State == game.StateRunning {
				fmt.Printf("\n[%3ds | score %d | lv %d] %s = ", int(snap.TimeRemaining.Seconds()), snap.Score, snap.Level, snap.Question.Prompt())
			}
		}
	}

	played := int(time.Since(started).Seconds())
	duration := int(constants.GameRules.RoundDuration.Seconds())
	if played > duration {
		played = duration
	}

	fmt.Println("\n\n=== Round over ===")
	fmt.Printf("Score:    %d\n", snap.Score)
	fmt.Printf("Level:    %d\n", snap.Level)
	fmt.Printf("Answers:  %d/%d correct (%.2f%%)\n",
		snap.CorrectAnswers, snap.TotalQuestions, game.Accuracy(snap.CorrectAnswers, snap.TotalQuestions))

	if *serverURL == "" || *token == "" {
		return
	}
	if err := uploadSession(*serverURL, *token, snap, played, duration); err != nil {
		fmt.Fprintf(os.Stderr, "score upload failed: %v\n", err)
		return
	}
	fmt.Println("Score saved to leaderboard.")
}

// uploadSession: 종료된 라운드 결과를 API 서버에 제출한다.
func uploadSession(baseURL, token string, snap game.Snapshot, played, duration int) error {
	input := domain.SessionInput{
		GameType:       domain.GameTypeMath,
		Score:          snap.Score,
		LevelReached:   snap.Level,
		CorrectAnswers: snap.CorrectAnswers,
		TotalQuestions: snap.TotalQuestions,
		TimePlayed:     played,
		GameDuration:   duration,
	}

	body, err := json.Marshal(input)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	url := strings.TrimRight(baseURL, "/") + "/api/game/sessions"
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	client := &http.Client{Timeout: constants.RequestTimeout.APIRequest}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("submit session: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("server returned %s", resp.Status)
	}
	return nil
}
