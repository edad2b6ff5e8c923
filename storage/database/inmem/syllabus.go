package inmem

import (
	"context"

	"github.com/trezcool/darasa/core/syllabus"
)

type SyllabusRepository struct {
	db *DB
}

var _ syllabus.Repository = (*SyllabusRepository)(nil)

func NewSyllabusRepository(db *DB) *SyllabusRepository { return &SyllabusRepository{db: db} }

func (repo *SyllabusRepository) CreateSubjects(ctx context.Context, ownerID string, subjects []syllabus.Subject) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	repo.db.subjects[ownerID] = append(repo.db.subjects[ownerID], cloneSubjects(subjects)...)
	return nil
}

func (repo *SyllabusRepository) QuerySubjects(ctx context.Context, ownerID string) ([]syllabus.Subject, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	return cloneSubjects(repo.db.subjects[ownerID]), nil
}

func (repo *SyllabusRepository) GetSubject(ctx context.Context, ownerID, id string) (syllabus.Subject, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	for _, subj := range repo.db.subjects[ownerID] {
		if subj.ID == id {
			return cloneSubject(subj), nil
		}
	}
	return syllabus.Subject{}, syllabus.ErrNotFound
}

func (repo *SyllabusRepository) DeleteSubject(ctx context.Context, ownerID, id string) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	subjects := repo.db.subjects[ownerID]
	for i, subj := range subjects {
		if subj.ID == id {
			repo.db.subjects[ownerID] = append(subjects[:i], subjects[i+1:]...)
			return nil
		}
	}
	return syllabus.ErrNotFound
}

func (repo *SyllabusRepository) CreateTopics(ctx context.Context, ownerID, subjectID string, topics []syllabus.Topic) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	subjects := repo.db.subjects[ownerID]
	for i := range subjects {
		if subjects[i].ID == subjectID {
			subjects[i].Topics = append(subjects[i].Topics, cloneTopics(topics)...)
			return nil
		}
	}
	return syllabus.ErrNotFound
}

func (repo *SyllabusRepository) GetTopic(ctx context.Context, ownerID, subjectID, topicID string) (syllabus.Topic, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	for _, subj := range repo.db.subjects[ownerID] {
		if subj.ID != subjectID {
			continue
		}
		for _, topic := range subj.Topics {
			if topic.ID == topicID {
				return cloneTopic(topic), nil
			}
		}
	}
	return syllabus.Topic{}, syllabus.ErrNotFound
}

func (repo *SyllabusRepository) DeleteTopic(ctx context.Context, ownerID, subjectID, topicID string) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	subjects := repo.db.subjects[ownerID]
	for i := range subjects {
		if subjects[i].ID != subjectID {
			continue
		}
		for j, topic := range subjects[i].Topics {
			if topic.ID == topicID {
				subjects[i].Topics = append(subjects[i].Topics[:j], subjects[i].Topics[j+1:]...)
				return nil
			}
		}
	}
	return syllabus.ErrNotFound
}

func (repo *SyllabusRepository) CreateSubtopics(ctx context.Context, ownerID, subjectID, topicID string, subtopics []syllabus.Subtopic) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	subjects := repo.db.subjects[ownerID]
	for i := range subjects {
		if subjects[i].ID != subjectID {
			continue
		}
		for j := range subjects[i].Topics {
			if subjects[i].Topics[j].ID == topicID {
				subjects[i].Topics[j].Subtopics = append(
					subjects[i].Topics[j].Subtopics, append([]syllabus.Subtopic(nil), subtopics...)...)
				return nil
			}
		}
	}
	return syllabus.ErrNotFound
}

func (repo *SyllabusRepository) DeleteSubtopic(ctx context.Context, ownerID, subjectID, topicID, subtopicID string) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	subjects := repo.db.subjects[ownerID]
	for i := range subjects {
		if subjects[i].ID != subjectID {
			continue
		}
		for j := range subjects[i].Topics {
			if subjects[i].Topics[j].ID != topicID {
				continue
			}
			sts := subjects[i].Topics[j].Subtopics
			for k, st := range sts {
				if st.ID == subtopicID {
					subjects[i].Topics[j].Subtopics = append(sts[:k], sts[k+1:]...)
					return nil
				}
			}
		}
	}
	return syllabus.ErrNotFound
}

func (repo *SyllabusRepository) FindSubtopic(ctx context.Context, ownerID, subtopicID string) (syllabus.SubtopicRef, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	for _, subj := range repo.db.subjects[ownerID] {
		for _, topic := range subj.Topics {
			for _, st := range topic.Subtopics {
				if st.ID == subtopicID {
					return syllabus.SubtopicRef{
						SubjectID:   subj.ID,
						SubjectName: subj.Name,
						TopicID:     topic.ID,
						TopicName:   topic.Name,
						Subtopic:    st,
					}, nil
				}
			}
		}
	}
	return syllabus.SubtopicRef{}, syllabus.ErrNotFound
}

func (repo *SyllabusRepository) UpdateSubtopic(ctx context.Context, ownerID string, st syllabus.Subtopic) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	subjects := repo.db.subjects[ownerID]
	for i := range subjects {
		for j := range subjects[i].Topics {
			sts := subjects[i].Topics[j].Subtopics
			for k := range sts {
				if sts[k].ID == st.ID {
					sts[k] = st
					return nil
				}
			}
		}
	}
	return syllabus.ErrNotFound
}

// Deep copies keep the stored tree isolated from caller mutations.

func cloneSubjects(subjects []syllabus.Subject) []syllabus.Subject {
	cp := make([]syllabus.Subject, len(subjects))
	for i, subj := range subjects {
		cp[i] = cloneSubject(subj)
	}
	return cp
}

func cloneSubject(subj syllabus.Subject) syllabus.Subject {
	subj.Topics = cloneTopics(subj.Topics)
	return subj
}

func cloneTopics(topics []syllabus.Topic) []syllabus.Topic {
	cp := make([]syllabus.Topic, len(topics))
	for i, topic := range topics {
		cp[i] = cloneTopic(topic)
	}
	return cp
}

func cloneTopic(topic syllabus.Topic) syllabus.Topic {
	topic.Subtopics = append([]syllabus.Subtopic(nil), topic.Subtopics...)
	return topic
}
