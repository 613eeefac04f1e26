package service

import (
	"amadeus_backend/internal/model"
	"amadeus_backend/internal/repository"
	"amadeus_backend/internal/util"
	"math"
	"time"
)

const undefinedValue = "Undefined"

// ReportTable 互动报表：一行一个学生，第一列为显示名
type ReportTable struct {
	Header []string        `json:"header"`
	Rows   [][]interface{} `json:"rows"`
}

// resourceSelection 解析后的资源类型与标签选择；Tag 为 nil 表示该类型的全部标签
type resourceSelection struct {
	Type        model.ResourceType
	Tag         *model.Tag
	ResourceIDs map[uint]bool
}

type reportData struct {
	Subject      *model.Subject
	TopicID      uint
	FromMural    bool
	FromMessages bool
	Selections   []resourceSelection

	Posts          []model.SubjectPost
	Comments       []model.Comment
	Visualizations map[uint]int
	Messages       []repository.SubjectMessage
	Logs           []model.Log
}

var (
	muralHeader = []string{
		"Number of help posts created by the user.",
		"Amount of comments on help posts created by the student.",
		"Amount of comments made by the student on teachers help posts.",
		"Amount of comments made by the student on other students help posts.",
		"Number of help posts created by the user that the teacher commented on.",
		"Number of help posts created by the user others students commented on.",
		"Number of student visualizations on the mural of the subject.",
	}
	messagesHeader = []string{
		"Amount of messages sent to other students.",
		"Amount of messages received from other students.",
		"Amount of distinct students to whom sent messages.",
		"Amount of messages sent to professors.",
		"Amount of messages received from professors.",
	}
	// 按时段统计学科访问，每段 6 小时，左闭右开
	accessBuckets = []struct {
		label    string
		from, to int
	}{
		{"Number of access to mural between 6 a.m to 12 p.m.", 6, 12},
		{"Number of access to mural between 12 p.m to 6 p.m.", 12, 18},
		{"Number of access to mural between 6 p.m to 12 a.m.", 18, 24},
		{"Number of access to mural between 0 a.m to 6 a.m.", 0, 6},
	}
	weekdayNames = []string{"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday"}
)

func (d *reportData) header() []string {
	h := []string{"User"}
	if d.FromMural {
		h = append(h, muralHeader...)
	}
	if d.FromMessages {
		h = append(h, messagesHeader...)
	}
	for _, sel := range d.Selections {
		name := model.ResourceTypeNames[sel.Type]
		suffix := ""
		if sel.Tag != nil {
			suffix = " with tag " + sel.Tag.Name
		}
		h = append(h,
			"number of visualizations of "+name+suffix,
			"number of visualizations of distinct "+name+suffix,
			"distinct days "+name+suffix,
		)
		if sel.Type.IsTimed() {
			h = append(h, "hours viewed of "+string(sel.Type)+suffix)
		}
	}
	for _, b := range accessBuckets {
		h = append(h, b.label)
	}
	for _, day := range weekdayNames {
		h = append(h, "Number of access to the subject on "+day)
	}
	return append(h, "Number of distinct days the user access the subject.", "Class", "Performance")
}

// build 在内存中汇总各学生的指标，列顺序与 header 一致
func (d *reportData) build() *ReportTable {
	table := &ReportTable{Header: d.header(), Rows: [][]interface{}{}}

	logsByUser := make(map[uint][]model.Log)
	for _, l := range d.Logs {
		logsByUser[l.UserID] = append(logsByUser[l.UserID], l)
	}

	for _, student := range d.Subject.Students {
		row := []interface{}{student.DisplayName()}
		if d.FromMural {
			row = append(row, d.muralRow(student.ID)...)
		}
		if d.FromMessages {
			row = append(row, d.messagesRow(student.ID)...)
		}
		userLogs := logsByUser[student.ID]
		for _, sel := range d.Selections {
			row = append(row, d.resourceRow(sel, userLogs)...)
		}
		row = append(row, d.accessRow(userLogs)...)
		row = append(row, undefinedValue, undefinedValue)
		table.Rows = append(table.Rows, row)
	}
	return table
}

func (d *reportData) isProfessor(userID uint) bool {
	for _, p := range d.Subject.Professors {
		if p.ID == userID {
			return true
		}
	}
	return false
}

func (d *reportData) isStudent(userID uint) bool {
	for _, s := range d.Subject.Students {
		if s.ID == userID {
			return true
		}
	}
	return false
}

func (d *reportData) muralRow(studentID uint) []interface{} {
	author := make(map[uint]uint, len(d.Posts))
	ownPosts := 0
	for _, p := range d.Posts {
		author[p.ID] = p.UserID
		if p.UserID == studentID {
			ownPosts++
		}
	}

	var onOwn, onProfessors, onStudents int
	byProfessor := make(map[uint]bool)
	byStudent := make(map[uint]bool)
	for _, c := range d.Comments {
		postAuthor, ok := author[c.PostID]
		if !ok {
			continue
		}
		if postAuthor == studentID {
			onOwn++
			if d.isProfessor(c.UserID) {
				byProfessor[c.PostID] = true
			} else if c.UserID != studentID && d.isStudent(c.UserID) {
				byStudent[c.PostID] = true
			}
		}
		if c.UserID != studentID {
			continue
		}
		if d.isProfessor(postAuthor) {
			onProfessors++
		} else if postAuthor != studentID && d.isStudent(postAuthor) {
			onStudents++
		}
	}

	return []interface{}{
		ownPosts,
		onOwn,
		onProfessors,
		onStudents,
		len(byProfessor),
		len(byStudent),
		d.Visualizations[studentID],
	}
}

func (d *reportData) messagesRow(studentID uint) []interface{} {
	var sentPeers, receivedPeers, sentProfessors, receivedProfessors int
	peers := make(map[uint]bool)
	for _, m := range d.Messages {
		if m.UserOneID != studentID && m.UserTwoID != studentID {
			continue
		}
		other := m.UserOneID
		if other == studentID {
			other = m.UserTwoID
		}
		sent := m.UserID == studentID
		switch {
		case d.isProfessor(other):
			if sent {
				sentProfessors++
			} else if m.UserID == other {
				receivedProfessors++
			}
		case other != studentID && d.isStudent(other):
			if sent {
				sentPeers++
				peers[other] = true
			} else if m.UserID == other {
				receivedPeers++
			}
		}
	}
	return []interface{}{sentPeers, receivedPeers, len(peers), sentProfessors, receivedProfessors}
}

func (d *reportData) resourceRow(sel resourceSelection, logs []model.Log) []interface{} {
	idKey := string(sel.Type) + "_id"
	views := 0
	viewed := make(map[int64]bool)
	days := make(map[string]bool)
	hours := 0.0
	inits := make(map[int64][]model.Log)
	ends := make(map[int64][]model.Log)

	for _, l := range logs {
		if l.Resource != string(sel.Type) {
			continue
		}
		if subjectID, ok := l.ContextInt("subject_id"); !ok || subjectID != int64(d.Subject.ID) {
			continue
		}
		resourceID, ok := l.ContextInt(idKey)
		if !ok || !sel.ResourceIDs[uint(resourceID)] {
			continue
		}

		switch l.Action {
		case util.LogActionView:
			if d.TopicID != 0 {
				if topicID, ok := l.ContextInt("topic_id"); !ok || topicID != int64(d.TopicID) {
					continue
				}
			}
			views++
			viewed[resourceID] = true
			days[l.Datetime.In(time.Local).Format(util.DateFormat)] = true
		case util.LogActionWatch:
			if sel.Type == model.ResourceYTVideo {
				hours += sessionHours(l, "timestamp_start", l, "timestamp_end")
			}
		case util.LogActionInitConference:
			inits[resourceID] = append(inits[resourceID], l)
		case util.LogActionParticipate:
			ends[resourceID] = append(ends[resourceID], l)
		}
	}

	if sel.Type == model.ResourceWebConference {
		// 同一资源的开始与结束日志按时间顺序配对，缺少结束的会话计 0
		for id, starts := range inits {
			for i, start := range starts {
				if i >= len(ends[id]) {
					break
				}
				hours += sessionHours(start, "webconference_init", ends[id][i], "webconference_finish")
			}
		}
	}

	row := []interface{}{views, len(viewed), len(days)}
	if sel.Type.IsTimed() {
		row = append(row, math.Round(hours*100)/100)
	}
	return row
}

// sessionHours 两个 Unix 秒级时间戳之差，单位小时；任一端缺失时为 0
func sessionHours(startLog model.Log, startKey string, endLog model.Log, endKey string) float64 {
	start, ok := startLog.ContextInt(startKey)
	if !ok {
		return 0
	}
	end, ok := endLog.ContextInt(endKey)
	if !ok {
		return 0
	}
	return math.Abs(float64(end-start)) / 3600
}

func (d *reportData) accessRow(logs []model.Log) []interface{} {
	buckets := make([]int, len(accessBuckets))
	weekdays := make([]int, 7)
	days := make(map[string]bool)

	for _, l := range logs {
		if l.Action != util.LogActionAccess || l.Resource != util.LogComponentSubject {
			continue
		}
		if subjectID, ok := l.ContextInt("subject_id"); !ok || subjectID != int64(d.Subject.ID) {
			continue
		}
		local := l.Datetime.In(time.Local)
		hour := local.Hour()
		for i, b := range accessBuckets {
			if hour >= b.from && hour < b.to {
				buckets[i]++
				break
			}
		}
		weekdays[int(local.Weekday())]++
		days[local.Format(util.DateFormat)] = true
	}

	row := make([]interface{}, 0, len(buckets)+len(weekdays)+1)
	for _, n := range buckets {
		row = append(row, n)
	}
	for _, n := range weekdays {
		row = append(row, n)
	}
	return append(row, len(days))
}
