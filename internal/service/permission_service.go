package service

import "amadeus_backend/internal/model"

// PermissionService 学科与资源的访问控制，依赖调用方预加载的关联
type PermissionService struct{}

func NewPermissionService() *PermissionService {
	return &PermissionService{}
}

// HasSubjectPermissions 管理员、学科教师或所属分类的协调员
func (s *PermissionService) HasSubjectPermissions(user *model.User, subject *model.Subject) bool {
	if user == nil || subject == nil {
		return false
	}
	if user.IsStaff {
		return true
	}
	for _, p := range subject.Professors {
		if p.ID == user.ID {
			return true
		}
	}
	for _, c := range subject.Category.Coordinators {
		if c.ID == user.ID {
			return true
		}
	}
	return false
}

// HasResourcePermissions resource.Topic.Subject 必须已加载
func (s *PermissionService) HasResourcePermissions(user *model.User, resource *model.Resource) bool {
	if user == nil || resource == nil {
		return false
	}
	subject := &resource.Topic.Subject
	if s.HasSubjectPermissions(user, subject) {
		return true
	}
	if !s.IsStudent(user, subject) || !resource.Visible {
		return false
	}
	return resource.AllStudents || resource.HasStudent(user.ID)
}

func (s *PermissionService) IsStudent(user *model.User, subject *model.Subject) bool {
	for _, st := range subject.Students {
		if st.ID == user.ID {
			return true
		}
	}
	return false
}
